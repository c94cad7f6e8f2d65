package catalog

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnknownKind is returned when a kind name does not match any entity kind.
var ErrUnknownKind = errors.New("unknown entity kind")

// Kind identifies one of the six entity kinds a picker can hold.
// The set is closed: every switch over Kind is expected to cover all
// values returned by AllKinds.
type Kind int

const (
	KindTopic Kind = iota
	KindPipeline
	KindSpace
	KindConnectedSpace
	KindSubject
	KindIndicator

	kindCount
)

// NumKinds is the number of entity kinds.
const NumKinds = int(kindCount)

var kindNames = [...]string{
	KindTopic:          "topic",
	KindPipeline:       "pipeline",
	KindSpace:          "space",
	KindConnectedSpace: "connected-space",
	KindSubject:        "subject",
	KindIndicator:      "indicator",
}

// AllKinds returns every kind in display order.
func AllKinds() []Kind {
	return []Kind{KindTopic, KindPipeline, KindSpace, KindConnectedSpace, KindSubject, KindIndicator}
}

// String returns the lower-case, hyphenated kind name.
func (k Kind) String() string {
	if k < 0 || k >= kindCount {
		return fmt.Sprintf("kind(%d)", int(k))
	}
	return kindNames[k]
}

// Valid reports whether k is one of the six entity kinds.
func (k Kind) Valid() bool {
	return k >= 0 && k < kindCount
}

// ParseKind converts a kind name into a Kind. Matching ignores case and
// accepts "_" or no separator in place of "-" (so "connected_space" and
// "ConnectedSpace" both resolve).
func ParseKind(s string) (Kind, error) {
	norm := strings.ToLower(strings.TrimSpace(s))
	norm = strings.NewReplacer("_", "", "-", "", " ", "").Replace(norm)
	for i, name := range kindNames {
		if strings.ReplaceAll(name, "-", "") == norm {
			return Kind(i), nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownKind, s)
}

// MarshalText implements encoding.TextMarshaler.
func (k Kind) MarshalText() ([]byte, error) {
	if !k.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrUnknownKind, int(k))
	}
	return []byte(k.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (k *Kind) UnmarshalText(text []byte) error {
	parsed, err := ParseKind(string(text))
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}
