// Package splits turns scraped results-table data into courses and ordered
// punch sequences.
package splits

import (
	"fmt"
	"regexp"
	"strconv"

	"osplits/internal/domain"
)

// Leg headers look like "S-1 (101)", "4-5 (152)" or "9-F": the number after
// the dash is the leg, the bracketed code the control it ends at.
var legLabelRE = regexp.MustCompile(`-([1-9][0-9]*|F)(?:\s*\(([0-9]+)\))?`)

// IsLegLabel reports whether a header cell names a course leg.
func IsLegLabel(text string) bool {
	return legLabelRE.MatchString(text)
}

// BuildCourse builds a course from its leg headers in table order. Legs must
// be numbered 1, 2, ... without gaps and end with the finish leg; any label
// that breaks this fails the whole course.
func BuildCourse(name string, labels []string) (*domain.Course, error) {
	controls := []int{domain.StartControl}
	finished := false

	for i, label := range labels {
		m := legLabelRE.FindStringSubmatch(label)
		if m == nil {
			return nil, fmt.Errorf("%w: label %d %q not recognized", domain.ErrMalformedCourseDefinition, i+1, label)
		}
		if finished {
			return nil, fmt.Errorf("%w: label %q after finish", domain.ErrMalformedCourseDefinition, label)
		}
		if m[1] == "F" {
			controls = append(controls, domain.FinishControl)
			finished = true
			continue
		}

		leg, err := strconv.Atoi(m[1])
		if err != nil {
			return nil, fmt.Errorf("%w: leg number in %q: %v", domain.ErrMalformedCourseDefinition, label, err)
		}
		if leg != len(controls) {
			return nil, fmt.Errorf("%w: expected leg %d, got %q", domain.ErrMalformedCourseDefinition, len(controls), label)
		}
		if m[2] == "" {
			return nil, fmt.Errorf("%w: no control code in %q", domain.ErrMalformedCourseDefinition, label)
		}
		code, err := strconv.Atoi(m[2])
		if err != nil {
			return nil, fmt.Errorf("%w: control code in %q: %v", domain.ErrMalformedCourseDefinition, label, err)
		}
		controls = append(controls, code)
	}

	if !finished {
		return nil, fmt.Errorf("%w: no finish leg", domain.ErrMalformedCourseDefinition)
	}

	legs := make([]domain.Leg, len(controls)-1)
	for i := range legs {
		legs[i] = domain.Leg{From: controls[i], To: controls[i+1]}
	}
	return &domain.Course{Name: name, Legs: legs}, nil
}
