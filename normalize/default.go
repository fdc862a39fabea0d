package normalize

import "github.com/tallyops/advicenorm/advice"

// defaultNormalizer handles advices whose group could not be resolved. An
// unresolved group is not an error; it means no group-specific rules apply,
// so the result is an empty line list.
type defaultNormalizer struct{}

func (defaultNormalizer) Group() advice.VendorGroup { return advice.GroupUnknown }

func (defaultNormalizer) Normalize(meta advice.MetaHeader, rows []advice.RawRow) (*Result, error) {
	return &Result{Group: advice.GroupUnknown, Lines: []advice.Line{}}, nil
}
