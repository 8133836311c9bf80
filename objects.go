package iak

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
)

// Two digits, a letter, three digits and two digits, separated by hyphens.
var objectCodeExp = regexp.MustCompile(`^\d{2}[A-Z]-\d{3}-\d{2}$`)

func IsObjectCode(s string) bool {
	return objectCodeExp.MatchString(s)
}

// OpenWerkpakket lists the object directories below root/name.
func OpenWerkpakket(root, name string) (*Werkpakket, error) {
	dir := filepath.Join(root, name)
	objs, err := ListObjects(dir)
	if err != nil {
		return nil, err
	}
	return &Werkpakket{Name: name, Dir: dir, Objects: objs}, nil
}

func ListObjects(dir string) ([]Object, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("werkpakket %s: %w", dir, err)
	}
	var objs []Object
	for _, e := range entries {
		if !e.IsDir() || !IsObjectCode(e.Name()) {
			continue
		}
		objs = append(objs, Object{
			Code: e.Name(),
			Dir:  filepath.Join(dir, e.Name()),
		})
	}
	sort.Slice(objs, func(i, j int) bool {
		return objs[i].Code < objs[j].Code
	})
	return objs, nil
}
