// internal/identify/tcs.go
package identify

// tcsSequencer handles TCS decoders. CV 249 alone identifies mobile
// decoders; values of 129 and above pull in CVs 248, 111 and 110 for the
// extended sound-set identity, combined according to the hardware version
// read from the model register.
type tcsSequencer struct {
	model uint8
	vals  []uint8 // CVs 249, 248, 111, 110 in read order
}

func (s *tcsSequencer) start() Action {
	return Action{Kind: ActionRead, CV: 249, Status: "Read decoder ID CV 249"}
}

func (s *tcsSequencer) next(v uint8) Action {
	s.vals = append(s.vals, v)
	switch len(s.vals) {
	case 1:
		if v < 129 {
			return productAction(uint32(v))
		}
		return Action{Kind: ActionRead, CV: 248, Status: "Read sound version CV 248"}
	case 2:
		return Action{Kind: ActionRead, CV: 111, Status: "Read extended version low CV 111"}
	case 3:
		return Action{Kind: ActionRead, CV: 110, Status: "Read extended version high CV 110"}
	default:
		return productAction(s.combine())
	}
}

func (s *tcsSequencer) combine() uint32 {
	lowest := uint32(s.vals[0])
	low := uint32(s.vals[1])
	high := uint32(s.vals[2])
	highest := uint32(s.vals[3])
	model := s.model

	between := func(v, lo, hi uint32) bool { return v >= lo && v <= hi }

	switch {
	case (between(lowest, 129, 135) && low == 5) || model >= 5:
		// WOWSound-era hardware; version 5 id 180 is a known two-byte
		// exception.
		if lowest == 180 && model == 5 {
			return lowest + low*256
		}
		return lowest + low*256 + high*65536 + highest*16777216
	case (between(lowest, 129, 135) || between(lowest, 170, 172) || lowest == 180) && model == 4:
		return lowest + low*256
	default:
		return lowest
	}
}
