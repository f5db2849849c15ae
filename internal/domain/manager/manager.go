package manager

import (
	"errors"
	"fmt"
	"path"
	"strings"
)

// DataFile is the name of the outpost book inside a manager directory.
const DataFile = "data.json.zst"

var (
	ErrDuplicateOutpost = errors.New("an outpost with the same name already exists")
	ErrOutpostNotFound  = errors.New("outpost does not exist for this manager")
	ErrEmptyName        = errors.New("name must not be empty")
)

// Manager owns a set of outposts. Alliances, corporations and members all
// manage outposts the same way; they differ only in identity and in where
// their book is stored.
type Manager interface {
	Name() string
	Kind() Kind
	// StoragePath is slash-separated and relative to the store root.
	StoragePath() string
	Outposts() []Outpost
	AddOutpost(o Outpost) error
	DeleteOutpost(name string) error
	// Replace swaps the whole book, used when loading from storage.
	Replace(outposts []Outpost)
}

type Kind string

const (
	KindAlliance    Kind = "alliance"
	KindCorporation Kind = "corporation"
	KindMember      Kind = "member"
)

type book struct {
	outposts []Outpost
}

func (b *book) Outposts() []Outpost {
	out := make([]Outpost, len(b.outposts))
	copy(out, b.outposts)
	return out
}

func (b *book) AddOutpost(o Outpost) error {
	if o.Name == "" {
		return ErrEmptyName
	}
	for _, existing := range b.outposts {
		if existing.Name == o.Name {
			return fmt.Errorf("%q: %w", o.Name, ErrDuplicateOutpost)
		}
	}
	b.outposts = append(b.outposts, o)
	return nil
}

func (b *book) DeleteOutpost(name string) error {
	for i, existing := range b.outposts {
		if existing.Name == name {
			b.outposts = append(b.outposts[:i], b.outposts[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("an outpost named %s: %w", name, ErrOutpostNotFound)
}

func (b *book) Replace(outposts []Outpost) {
	b.outposts = append([]Outpost(nil), outposts...)
}

type Alliance struct {
	name string
	book
}

func NewAlliance(name string) *Alliance { return &Alliance{name: name} }

func (a *Alliance) Name() string        { return a.name }
func (a *Alliance) Kind() Kind          { return KindAlliance }
func (a *Alliance) StoragePath() string { return path.Join(a.name, DataFile) }

type Corporation struct {
	name     string
	alliance *Alliance
	book
}

// NewCorporation creates a corporation; alliance may be nil.
func NewCorporation(name string, alliance *Alliance) *Corporation {
	return &Corporation{name: name, alliance: alliance}
}

func (c *Corporation) Name() string        { return c.name }
func (c *Corporation) Kind() Kind          { return KindCorporation }
func (c *Corporation) Alliance() *Alliance { return c.alliance }
func (c *Corporation) StoragePath() string { return path.Join(c.dir(), DataFile) }

func (c *Corporation) dir() string {
	if c.alliance == nil {
		return c.name
	}
	return path.Join(c.alliance.name, c.name)
}

type Member struct {
	name        string
	corporation *Corporation
	book
}

func NewMember(name string, corporation *Corporation) *Member {
	return &Member{name: name, corporation: corporation}
}

func (m *Member) Name() string              { return m.name }
func (m *Member) Kind() Kind                { return KindMember }
func (m *Member) Corporation() *Corporation { return m.corporation }

func (m *Member) StoragePath() string {
	if m.corporation == nil {
		return path.Join(m.name, DataFile)
	}
	return path.Join(m.corporation.dir(), m.name, DataFile)
}

// Parse builds a manager from a slash path such as "Alliance/Corp/Member".
// One segment is an alliance, two a corporation, three a member.
func Parse(p string) (Manager, error) {
	var parts []string
	for _, s := range strings.Split(p, "/") {
		s = strings.TrimSpace(s)
		if s != "" {
			parts = append(parts, s)
		}
	}
	switch len(parts) {
	case 1:
		return NewAlliance(parts[0]), nil
	case 2:
		return NewCorporation(parts[1], NewAlliance(parts[0])), nil
	case 3:
		return NewMember(parts[2], NewCorporation(parts[1], NewAlliance(parts[0]))), nil
	default:
		return nil, fmt.Errorf("manager path %q: want alliance[/corporation[/member]]", p)
	}
}
