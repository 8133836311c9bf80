package iak // import "kastelo.dev/iak"

import "strings"

// Werkpakket is a batch of inspected objects sharing one directory.
type Werkpakket struct {
	Name    string
	Dir     string
	Objects []Object
}

// Object is a single inspected asset, identified by its code (e.g. 30F-310-01).
type Object struct {
	Code string
	Dir  string
}

// ComplexCode returns the first two parts of the object code.
func (o Object) ComplexCode() string {
	return ComplexCode(o.Code)
}

func ComplexCode(code string) string {
	parts := strings.Split(code, "-")
	if len(parts) > 2 {
		parts = parts[:2]
	}
	return strings.Join(parts, "-")
}

// GeneratedDocument is a populated template and, once exported, its PDF.
type GeneratedDocument struct {
	Object   string
	Kind     string
	Document string
	PDF      string
}
