package variation

import "math/rand"

// GenerateTransformationSet builds a fresh TransformationSet from a list of
// catalog ids, sampling a new contractive affine, weight and color for each
// via rejection sampling and wrapping it in the named variation. It fails
// with ErrEmptySelection on an empty id list and ErrUnknownVariation on the
// first unrecognized id.
func GenerateTransformationSet(r *rand.Rand, ids []string, cfg AffineSamplerConfig) (TransformationSet, error) {
	if len(ids) == 0 {
		return TransformationSet{}, ErrEmptySelection
	}
	items := make([]Variation, 0, len(ids))
	for _, id := range ids {
		if _, ok := lookup(id); !ok {
			return TransformationSet{}, ErrUnknownVariation
		}
		base, color, weight, err := SampleAffine(r, cfg)
		if err != nil {
			return TransformationSet{}, err
		}
		v, err := Create(id, base, weight, color)
		if err != nil {
			return TransformationSet{}, err
		}
		items = append(items, v)
	}
	return NewTransformationSet(items)
}
