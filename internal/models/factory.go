package models

import (
	"fmt"

	"github.com/jmaravall/phaseq/internal/eos"
)

// Families lists the model families New understands, in display order.
func Families() []string { return []string{"pr", "srk", "vdw"} }

// New builds a model of the named family from a parameter set. Family
// identity stops here: everything downstream sees only eos.Model and
// the capability interfaces.
func New(family string, ps *eos.ParamSet) (eos.Model, error) {
	switch family {
	case "pr", "peng-robinson":
		return NewPengRobinson(ps)
	case "srk", "soave":
		return NewSRK(ps)
	case "vdw", "van-der-waals":
		return NewVDW(ps)
	default:
		return nil, fmt.Errorf("models: unknown family %q", family)
	}
}
