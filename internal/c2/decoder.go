package c2

import "c2Scope/internal/model"

// Decoder runs an ordered strategy chain and stops at the first acceptance.
type Decoder struct {
	strategies []Strategy
}

// NewDecoder builds a decoder. With no strategies it uses DefaultStrategies.
func NewDecoder(strategies ...Strategy) *Decoder {
	if len(strategies) == 0 {
		strategies = DefaultStrategies()
	}
	return &Decoder{strategies: strategies}
}

// Decode classifies raw. Values no strategy accepts are reported as unknown
// with the trimmed text; Raw is always the untouched input.
func (d *Decoder) Decode(raw string, key Key) model.DecodeResult {
	in := Input{Raw: raw, Trimmed: trimValue(raw), Key: key}
	for _, strategy := range d.strategies {
		if out, ok := strategy.Attempt(in); ok {
			return model.DecodeResult{Method: out.Method, Decoded: out.Decoded, Raw: raw}
		}
	}
	return model.DecodeResult{Method: model.MethodUnknown, Decoded: in.Trimmed, Raw: raw}
}
