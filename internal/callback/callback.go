// Package callback encodes and decodes inline keyboard callback data.
package callback

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

var ErrUnknownAction = errors.New("unknown callback action")

const (
	prefixLanguage = "lang:"
	prefixCurrency = "curr:"
	prefixConfirm  = "done:"
)

// Action is one of SelectLanguage, SelectCurrency or ConfirmOwnership.
type Action interface {
	Data() string
	action()
}

type SelectLanguage struct {
	Code string
}

type SelectCurrency struct {
	Code string
}

// ConfirmOwnership is pressed after the user transferred ownership of EntityID.
type ConfirmOwnership struct {
	EntityID int64
	Year     int
}

func (a SelectLanguage) Data() string { return prefixLanguage + a.Code }
func (a SelectCurrency) Data() string { return prefixCurrency + a.Code }
func (a ConfirmOwnership) Data() string {
	return prefixConfirm + strconv.FormatInt(a.EntityID, 10) + ":" + strconv.Itoa(a.Year)
}

func (SelectLanguage) action()   {}
func (SelectCurrency) action()   {}
func (ConfirmOwnership) action() {}

func Parse(data string) (Action, error) {
	switch {
	case strings.HasPrefix(data, prefixLanguage):
		code := strings.TrimPrefix(data, prefixLanguage)
		if code == "" {
			return nil, fmt.Errorf("%w: %q", ErrUnknownAction, data)
		}
		return SelectLanguage{Code: code}, nil
	case strings.HasPrefix(data, prefixCurrency):
		code := strings.TrimPrefix(data, prefixCurrency)
		if code == "" {
			return nil, fmt.Errorf("%w: %q", ErrUnknownAction, data)
		}
		return SelectCurrency{Code: code}, nil
	case strings.HasPrefix(data, prefixConfirm):
		id, year, ok := strings.Cut(strings.TrimPrefix(data, prefixConfirm), ":")
		if !ok {
			return nil, fmt.Errorf("%w: %q", ErrUnknownAction, data)
		}
		entityID, err := strconv.ParseInt(id, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("parse entity id: %w", err)
		}
		y, err := strconv.Atoi(year)
		if err != nil {
			return nil, fmt.Errorf("parse year: %w", err)
		}
		return ConfirmOwnership{EntityID: entityID, Year: y}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownAction, data)
	}
}

// Prefixes lists the data prefixes the bot must route to the callback handler.
func Prefixes() []string {
	return []string{prefixLanguage, prefixCurrency, prefixConfirm}
}
