package entities

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// ProductType identifies one of the three finished product families
type ProductType int

const (
	ProductX ProductType = iota
	ProductY
	ProductZ
)

// Products lists every product family in report order
var Products = []ProductType{ProductX, ProductY, ProductZ}

// String method for ProductType enum
func (p ProductType) String() string {
	switch p {
	case ProductX:
		return "X"
	case ProductY:
		return "Y"
	case ProductZ:
		return "Z"
	default:
		return "Unknown"
	}
}

// Valid reports whether p is one of the three known products
func (p ProductType) Valid() bool {
	return p >= ProductX && p <= ProductZ
}

// Part returns the part family p is assembled from
func (p ProductType) Part() PartType {
	return PartType(p)
}

// Code returns the 1-based code used in decision files
func (p ProductType) Code() int {
	return int(p) + 1
}

// ProductTypeFromCode maps a decision file code (1..3) to a product
func ProductTypeFromCode(code int) (ProductType, error) {
	if code < 1 || code > 3 {
		return 0, fmt.Errorf("product code must be 1, 2 or 3, got %d", code)
	}
	return ProductType(code - 1), nil
}

// ParseProductType parses "X", "Y" or "Z"
func ParseProductType(s string) (ProductType, error) {
	for _, p := range Products {
		if p.String() == s {
			return p, nil
		}
	}
	return 0, fmt.Errorf("unknown product %q", s)
}

func (p ProductType) MarshalText() ([]byte, error) {
	if !p.Valid() {
		return nil, fmt.Errorf("invalid product type %d", int(p))
	}
	return []byte(p.String()), nil
}

func (p *ProductType) UnmarshalText(text []byte) error {
	v, err := ParseProductType(string(text))
	if err != nil {
		return err
	}
	*p = v
	return nil
}

// PartType identifies the part family feeding a product
type PartType int

const (
	PartXPrime PartType = iota
	PartYPrime
	PartZPrime
)

// Parts lists every part family in report order
var Parts = []PartType{PartXPrime, PartYPrime, PartZPrime}

// String method for PartType enum
func (p PartType) String() string {
	switch p {
	case PartXPrime:
		return "X'"
	case PartYPrime:
		return "Y'"
	case PartZPrime:
		return "Z'"
	default:
		return "Unknown"
	}
}

// Valid reports whether p is one of the three known parts
func (p PartType) Valid() bool {
	return p >= PartXPrime && p <= PartZPrime
}

// Product returns the product family p is consumed by
func (p PartType) Product() ProductType {
	return ProductType(p)
}

// ParsePartType parses "X'", "Y'" or "Z'"
func ParsePartType(s string) (PartType, error) {
	for _, p := range Parts {
		if p.String() == s {
			return p, nil
		}
	}
	return 0, fmt.Errorf("unknown part %q", s)
}

func (p PartType) MarshalText() ([]byte, error) {
	if !p.Valid() {
		return nil, fmt.Errorf("invalid part type %d", int(p))
	}
	return []byte(p.String()), nil
}

func (p *PartType) UnmarshalText(text []byte) error {
	v, err := ParsePartType(string(text))
	if err != nil {
		return err
	}
	*p = v
	return nil
}

// Department is the production department a machine or operator belongs to
type Department int

const (
	Unassigned Department = iota
	PartsDepartment
	AssemblyDepartment
)

// String method for Department enum
func (d Department) String() string {
	switch d {
	case Unassigned:
		return "Unassigned"
	case PartsDepartment:
		return "Parts"
	case AssemblyDepartment:
		return "Assembly"
	default:
		return "Unknown"
	}
}

func (d Department) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

func (d *Department) UnmarshalText(text []byte) error {
	for _, v := range []Department{Unassigned, PartsDepartment, AssemblyDepartment} {
		if v.String() == string(text) {
			*d = v
			return nil
		}
	}
	return fmt.Errorf("unknown department %q", string(text))
}

// ItemType is satisfied by the two item families a department produces
type ItemType interface {
	PartType | ProductType
}

// Amounts holds one decimal quantity per item family. Missing keys read as zero.
type Amounts[K ItemType] map[K]decimal.Decimal

// Get returns the amount for k, or zero
func (a Amounts[K]) Get(k K) decimal.Decimal {
	if v, ok := a[k]; ok {
		return v
	}
	return decimal.Zero
}

// Add increases the amount for k by v
func (a Amounts[K]) Add(k K, v decimal.Decimal) {
	a[k] = a.Get(k).Add(v)
}

// Total sums every amount
func (a Amounts[K]) Total() decimal.Decimal {
	total := decimal.Zero
	for _, v := range a {
		total = total.Add(v)
	}
	return total
}

// Clone returns an independent copy
func (a Amounts[K]) Clone() Amounts[K] {
	out := make(Amounts[K], len(a))
	for k, v := range a {
		out[k] = v
	}
	return out
}

// MaxZero returns v, or zero when v is negative
func MaxZero(v decimal.Decimal) decimal.Decimal {
	if v.IsNegative() {
		return decimal.Zero
	}
	return v
}
