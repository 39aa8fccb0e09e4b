// internal/identify/hornby.go
package identify

// hornbySequencer handles Hornby decoders older than the HN7000 series.
// CV 159 is not present on all models; when it reads as 143, CV 158 carries
// the high byte and 143 is the low byte, otherwise CV 159 alone is the id.
type hornbySequencer struct {
	extended bool
}

func (s *hornbySequencer) start() Action {
	return Action{Kind: ActionRead, CV: 159, Optional: true, Status: "Read optional product ID CV 159"}
}

func (s *hornbySequencer) next(v uint8) Action {
	if s.extended {
		return productAction(uint32(v)<<8 | 143)
	}
	if v == 143 {
		s.extended = true
		return Action{Kind: ActionRead, CV: 158, Status: "Read product ID high CV 158"}
	}
	return productAction(uint32(v))
}
