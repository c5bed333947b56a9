// Package hsdata holds the static Hearthstone reference data the bot renders
// and validates against. It is parsed once at startup from an embedded YAML
// file and shared read-only afterwards.
package hsdata

import (
	_ "embed"
	"errors"
	"fmt"

	"gopkg.in/yaml.v3"
)

//go:embed hs_entities.yaml
var entitiesYAML []byte

// Type signs used as card type codes.
const (
	TypeMinion   = "M"
	TypeSpell    = "S"
	TypeWeapon   = "W"
	TypeHero     = "H"
	TypeLocation = "L"
)

type CardType struct {
	Sign  string `yaml:"sign"`
	En    string `yaml:"en"`
	Emoji string `yaml:"emoji"`
}

type Class struct {
	En string `yaml:"en"`
}

type Rarity struct {
	Sign  string `yaml:"sign"`
	En    string `yaml:"en"`
	Emoji string `yaml:"emoji"`
}

type Set struct {
	En string `yaml:"en"`
}

type Format struct {
	Sign string `yaml:"sign"`
	En   string `yaml:"en"`
}

// Reference is the immutable set of known codes. Slices keep the order of the
// source file, which is the order buttons are offered in.
type Reference struct {
	Types    []CardType `yaml:"types"`
	Classes  []Class    `yaml:"classes"`
	Rarities []Rarity   `yaml:"rarities"`
	Sets     []Set      `yaml:"sets"`
	Formats  []Format   `yaml:"formats"`
}

// Load parses the embedded reference data.
func Load() (*Reference, error) {
	return Parse(entitiesYAML)
}

// MustLoad is Load for process startup.
func MustLoad() *Reference {
	ref, err := Load()
	if err != nil {
		panic(err)
	}
	return ref
}

// Parse decodes reference data from YAML and checks it is usable.
func Parse(data []byte) (*Reference, error) {
	var ref Reference
	if err := yaml.Unmarshal(data, &ref); err != nil {
		return nil, fmt.Errorf("parse hearthstone entities: %w", err)
	}
	if len(ref.Types) == 0 || len(ref.Classes) == 0 || len(ref.Rarities) == 0 {
		return nil, errors.New("hearthstone entities: types, classes and rarities are required")
	}
	return &ref, nil
}

func (r *Reference) TypeBySign(sign string) (CardType, bool) {
	for _, t := range r.Types {
		if t.Sign == sign {
			return t, true
		}
	}
	return CardType{}, false
}

func (r *Reference) TypeByName(name string) (CardType, bool) {
	for _, t := range r.Types {
		if t.En == name {
			return t, true
		}
	}
	return CardType{}, false
}

func (r *Reference) RarityBySign(sign string) (Rarity, bool) {
	for _, x := range r.Rarities {
		if x.Sign == sign {
			return x, true
		}
	}
	return Rarity{}, false
}

func (r *Reference) RarityByName(name string) (Rarity, bool) {
	for _, x := range r.Rarities {
		if x.En == name {
			return x, true
		}
	}
	return Rarity{}, false
}

func (r *Reference) HasClass(name string) bool {
	for _, c := range r.Classes {
		if c.En == name {
			return true
		}
	}
	return false
}

func (r *Reference) HasSet(name string) bool {
	for _, s := range r.Sets {
		if s.En == name {
			return true
		}
	}
	return false
}

func (r *Reference) FormatBySign(sign string) (Format, bool) {
	for _, f := range r.Formats {
		if f.Sign == sign {
			return f, true
		}
	}
	return Format{}, false
}
