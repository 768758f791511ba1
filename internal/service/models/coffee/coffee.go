package coffee

import (
	"database/sql/driver"
	"errors"
)

// Type is one of the coffee styles on the menu.
type Type string

const (
	TypeEspresso   Type = "Espresso"
	TypeLatte      Type = "Latte"
	TypeCappuccino Type = "Cappuccino"
	TypeAmericano  Type = "Americano"
	TypeMacchiato  Type = "Macchiato"
	TypeMocha      Type = "Mocha"
)

// Size is a cup size.
type Size string

const (
	SizeSmall  Size = "Small"
	SizeMedium Size = "Medium"
	SizeLarge  Size = "Large"
)

var (
	ErrInvalidType = errors.New("invalid coffee type")
	ErrInvalidSize = errors.New("invalid coffee size")
)

func (t Type) String() string {
	return string(t)
}

func (t Type) Value() (driver.Value, error) {
	return t.String(), nil
}

func ParseType(s string) (Type, error) {
	switch Type(s) {
	case TypeEspresso, TypeLatte, TypeCappuccino, TypeAmericano, TypeMacchiato, TypeMocha:
		return Type(s), nil
	default:
		return "", ErrInvalidType
	}
}

func (s Size) String() string {
	return string(s)
}

func (s Size) Value() (driver.Value, error) {
	return s.String(), nil
}

func ParseSize(s string) (Size, error) {
	switch Size(s) {
	case SizeSmall, SizeMedium, SizeLarge:
		return Size(s), nil
	default:
		return "", ErrInvalidSize
	}
}
