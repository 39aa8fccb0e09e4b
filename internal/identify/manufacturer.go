// internal/identify/manufacturer.go
package identify

// Manufacturer identifies the maker of a decoder, derived from the value of
// the manufacturer register (CV 8). Only manufacturers with a known product
// identifier scheme are listed; everything else is Unknown.
type Manufacturer int

const (
	Unknown Manufacturer = iota
	Dietz
	Diy
	Doehler
	Esu
	Harman
	Hornby
	Qsi
	SoundTraxx
	Tcs
	TrainOMatic
	Zimo
)

// NMRA-assigned manufacturer register values.
// These values define the protocol and MUST NOT be configurable.
const (
	codeDiy         = 13
	codeHornby      = 48
	codeTrainOMatic = 78
	codeDoehler     = 97
	codeHarman      = 98
	codeQsi         = 113
	codeDietz       = 115
	codeSoundTraxx  = 141
	codeZimo        = 145
	codeEsu         = 151
	codeTcs         = 153
)

var manufacturerByCode = map[uint8]Manufacturer{
	codeDiy:         Diy,
	codeHornby:      Hornby,
	codeTrainOMatic: TrainOMatic,
	codeDoehler:     Doehler,
	codeHarman:      Harman,
	codeQsi:         Qsi,
	codeDietz:       Dietz,
	codeSoundTraxx:  SoundTraxx,
	codeZimo:        Zimo,
	codeEsu:         Esu,
	codeTcs:         Tcs,
}

// ManufacturerForCode maps a manufacturer register value to its symbolic
// manufacturer. Unrecognized codes yield Unknown.
func ManufacturerForCode(code uint8) Manufacturer {
	if m, ok := manufacturerByCode[code]; ok {
		return m
	}
	return Unknown
}

var manufacturerNames = map[Manufacturer]string{
	Dietz:       "Dietz",
	Diy:         "DIY",
	Doehler:     "Doehler & Haass",
	Esu:         "ESU",
	Harman:      "Harman",
	Hornby:      "Hornby",
	Qsi:         "QSI",
	SoundTraxx:  "SoundTraxx",
	Tcs:         "TCS",
	TrainOMatic: "Train-O-Matic",
	Zimo:        "Zimo",
}

func (m Manufacturer) String() string {
	if n, ok := manufacturerNames[m]; ok {
		return n
	}
	return "Unknown"
}

// newSequencer selects the sub-protocol for a manufacturer and model.
// A nil return means no product identifier can be determined: either the
// manufacturer is Unknown, or its scheme does not cover this model.
func newSequencer(m Manufacturer, model uint8) sequencer {
	switch m {
	case Dietz:
		return &scriptSequencer{
			steps: []scriptStep{
				{cv: 128, status: "Read product ID CV 128"},
			},
			combine: func(v []uint8) uint32 { return uint32(v[0]) },
		}

	case Diy:
		// CV 47 is the highest byte, CV 50 the lowest.
		return &scriptSequencer{
			steps: []scriptStep{
				{cv: 47, status: "Read product ID byte 1 CV 47"},
				{cv: 48, status: "Read product ID byte 2 CV 48"},
				{cv: 49, status: "Read product ID byte 3 CV 49"},
				{cv: 50, status: "Read product ID byte 4 CV 50"},
			},
			combine: func(v []uint8) uint32 {
				return uint32(v[0])<<24 | uint32(v[1])<<16 | uint32(v[2])<<8 | uint32(v[3])
			},
		}

	case Doehler:
		// CV 261 exists on 2020-or-later firmware only.
		return &scriptSequencer{
			steps: []scriptStep{
				{cv: 261, optional: true, status: "Read optional product ID CV 261"},
			},
			combine: func(v []uint8) uint32 { return uint32(v[0]) },
		}

	case Esu:
		if model != 255 {
			return nil
		}
		// RailCom product ID: select the index page, then CVs 261
		// (lowest) through 264 (highest) form a little-endian 32-bit id.
		return &scriptSequencer{
			steps: []scriptStep{
				{write: true, cv: 31, value: 0, status: "Set PI for product ID"},
				{write: true, cv: 32, value: 255, status: "Set SI for product ID"},
				{cv: 261, status: "Read product ID byte 1 CV 261"},
				{cv: 262, status: "Read product ID byte 2 CV 262"},
				{cv: 263, status: "Read product ID byte 3 CV 263"},
				{cv: 264, status: "Read product ID byte 4 CV 264"},
			},
			combine: func(v []uint8) uint32 {
				return uint32(v[0]) | uint32(v[1])<<8 | uint32(v[2])<<16 | uint32(v[3])<<24
			},
		}

	case Harman:
		return &scriptSequencer{
			steps: []scriptStep{
				{cv: 112, status: "Read product ID high CV 112"},
				{cv: 113, status: "Read product ID low CV 113"},
			},
			combine: func(v []uint8) uint32 { return uint32(v[0])<<8 | uint32(v[1]) },
		}

	case Hornby:
		if model == 254 {
			// HN7000 series. CV 200 is read twice; the second read
			// supplies the high byte.
			return &scriptSequencer{
				steps: []scriptStep{
					{cv: 200, optional: true, status: "Read optional product ID low CV 200"},
					{cv: 200, status: "Read product ID high CV 200"},
				},
				combine: func(v []uint8) uint32 { return uint32(v[1])<<8 | uint32(v[0]) },
			}
		}
		return &hornbySequencer{}

	case Qsi:
		// Indexed access: PI/SI writes select which byte CV 56 exposes.
		return &scriptSequencer{
			steps: []scriptStep{
				{write: true, cv: 49, value: 254, status: "Set PI for product ID"},
				{write: true, cv: 50, value: 4, status: "Set SI for product ID high"},
				{cv: 56, status: "Read product ID high CV 56"},
				{write: true, cv: 50, value: 5, status: "Set SI for product ID low"},
				{cv: 56, status: "Read product ID low CV 56"},
			},
			combine: func(v []uint8) uint32 { return uint32(v[0])<<8 | uint32(v[1]) },
		}

	case SoundTraxx:
		// Econami, Tsunami2 and Blunami only.
		if model < 70 || model > 72 {
			return nil
		}
		return &scriptSequencer{
			steps: []scriptStep{
				{cv: 253, status: "Read product ID bits 11-18 CV 253"},
				{cv: 256, status: "Read product ID bits 0-7 CV 256"},
				{cv: 255, status: "Read product ID bits 8-10 CV 255"},
			},
			combine: func(v []uint8) uint32 {
				return uint32(v[1]) | uint32(v[2]&7)<<8 | uint32(v[0])<<11
			},
		}

	case Tcs:
		return &tcsSequencer{model: model}

	case TrainOMatic:
		// CV 508 lowest byte, CV 509 low byte, CV 510 high byte.
		return &scriptSequencer{
			steps: []scriptStep{
				{cv: 510, status: "Read product ID byte 1 CV 510"},
				{cv: 509, status: "Read product ID byte 2 CV 509"},
				{cv: 508, status: "Read product ID byte 3 CV 508"},
			},
			combine: func(v []uint8) uint32 {
				return uint32(v[2]) | uint32(v[1])<<8 | uint32(v[0])<<16
			},
		}

	case Zimo:
		return &scriptSequencer{
			steps: []scriptStep{
				{cv: 250, status: "Read product ID CV 250"},
			},
			combine: func(v []uint8) uint32 { return uint32(v[0]) },
		}

	default:
		return nil
	}
}
