package dataset

// Check is one named structural conformance check.
type Check struct {
	Name string
	OK   bool
}

// LengthStats summarizes the rune lengths of a text field across the
// dataset.
type LengthStats struct {
	Count int
	Min   int
	Max   int
	Mean  float64
}

// Diagnostics is the structural summary of a loaded dataset.
type Diagnostics struct {
	SampleCount  int
	MeanMessages float64
	Checks       []Check
	Analysis     LengthStats
	Final        LengthStats
}

// Conforms reports whether every structural check passed.
func (d Diagnostics) Conforms() bool {
	for _, c := range d.Checks {
		if !c.OK {
			return false
		}
	}
	return true
}

// Inspect computes structural diagnostics over the dataset. The checks
// mirror what the training notebook needs: a system/user/assistant
// message layout with the assistant turn carrying final content plus
// thinking, and the top-level analysis and final fields populated.
func Inspect(samples []Sample) Diagnostics {
	d := Diagnostics{SampleCount: len(samples)}
	if len(samples) == 0 {
		return d
	}

	checks := map[string]bool{
		"three messages per sample":   true,
		"system/user/assistant roles": true,
		"assistant has final content": true,
		"assistant carries thinking":  true,
		"top-level analysis present":  true,
		"top-level final present":     true,
	}

	totalMessages := 0
	var analysisLengths, finalLengths []int

	for _, s := range samples {
		totalMessages += len(s.Messages)

		if len(s.Messages) != 3 {
			checks["three messages per sample"] = false
		}
		if !hasRoles(s.Messages, "system", "user", "assistant") {
			checks["system/user/assistant roles"] = false
		}

		if len(s.Messages) > 0 {
			last := s.Messages[len(s.Messages)-1]
			if last.Role != "assistant" || last.Content == "" {
				checks["assistant has final content"] = false
			}
			if last.Thinking == nil || *last.Thinking == "" {
				checks["assistant carries thinking"] = false
			}
		} else {
			checks["assistant has final content"] = false
			checks["assistant carries thinking"] = false
		}

		if s.Analysis == "" {
			checks["top-level analysis present"] = false
		} else {
			analysisLengths = append(analysisLengths, runeLen(s.Analysis))
		}
		if s.Final == "" {
			checks["top-level final present"] = false
		} else {
			finalLengths = append(finalLengths, runeLen(s.Final))
		}
	}

	d.MeanMessages = float64(totalMessages) / float64(len(samples))
	d.Analysis = lengthStats(analysisLengths)
	d.Final = lengthStats(finalLengths)

	// Fixed ordering keeps the diagnostic output stable run to run.
	for _, name := range []string{
		"three messages per sample",
		"system/user/assistant roles",
		"assistant has final content",
		"assistant carries thinking",
		"top-level analysis present",
		"top-level final present",
	} {
		d.Checks = append(d.Checks, Check{Name: name, OK: checks[name]})
	}

	return d
}

func hasRoles(messages []Message, roles ...string) bool {
	if len(messages) != len(roles) {
		return false
	}
	for i, role := range roles {
		if messages[i].Role != role {
			return false
		}
	}
	return true
}

func lengthStats(lengths []int) LengthStats {
	s := LengthStats{Count: len(lengths)}
	if len(lengths) == 0 {
		return s
	}

	s.Min = lengths[0]
	s.Max = lengths[0]
	sum := 0
	for _, l := range lengths {
		sum += l
		if l < s.Min {
			s.Min = l
		}
		if l > s.Max {
			s.Max = l
		}
	}
	s.Mean = float64(sum) / float64(len(lengths))
	return s
}
