package catalog

import (
	"bytes"
	"cmp"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"slices"

	"github.com/DoyleJ11/lol-draft-companion/internal/engine"
)

//go:embed champions.json
var seed []byte

var ErrEmptyCatalog = errors.New("catalog has no champions")

type Champion struct {
	ID    engine.ChampionID `json:"id"`
	Key   string            `json:"key"`
	Name  string            `json:"name"`
	Tags  []string          `json:"tags"`
	Roles []engine.Role     `json:"roles"`
}

// Entry is a champion annotated with whether it can still be selected.
type Entry struct {
	Champion
	Available bool `json:"available"`
}

type Catalog struct {
	champions []Champion
	byID      map[engine.ChampionID]Champion
}

// dataDragon mirrors the champion.json layout. "roles" is not part of Data
// Dragon and is only present in curated files.
type dataDragon struct {
	Version string `json:"version"`
	Data    map[string]struct {
		ID    string   `json:"id"`
		Key   string   `json:"key"`
		Name  string   `json:"name"`
		Tags  []string `json:"tags"`
		Roles []string `json:"roles"`
	} `json:"data"`
}

// Load parses a Data Dragon champion.json.
func Load(r io.Reader) (*Catalog, error) {
	var doc dataDragon
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("decode champion data: %w", err)
	}
	if len(doc.Data) == 0 {
		return nil, ErrEmptyCatalog
	}

	c := &Catalog{byID: make(map[engine.ChampionID]Champion, len(doc.Data))}
	for key, raw := range doc.Data {
		id := raw.ID
		if id == "" {
			id = key
		}
		champ := Champion{
			ID:   engine.ChampionID(id),
			Key:  raw.Key,
			Name: raw.Name,
			Tags: raw.Tags,
		}
		if champ.Name == "" {
			champ.Name = id
		}
		for _, name := range raw.Roles {
			role, err := engine.ParseRole(name)
			if err != nil {
				return nil, fmt.Errorf("champion %s: %w %q", id, err, name)
			}
			champ.Roles = append(champ.Roles, role)
		}
		if len(champ.Roles) == 0 {
			champ.Roles = InferRoles(champ.Tags)
		}
		c.champions = append(c.champions, champ)
		c.byID[champ.ID] = champ
	}
	slices.SortFunc(c.champions, func(a, b Champion) int {
		return cmp.Or(cmp.Compare(a.Name, b.Name), cmp.Compare(a.ID, b.ID))
	})
	return c, nil
}

// LoadFile loads a catalog from path, or the embedded seed when path is empty.
func LoadFile(path string) (*Catalog, error) {
	if path == "" {
		return Default()
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open champion data: %w", err)
	}
	defer f.Close()
	return Load(f)
}

// Default returns the embedded seed catalog.
func Default() (*Catalog, error) {
	return Load(bytes.NewReader(seed))
}

// InferRoles guesses playable roles from Data Dragon class tags.
func InferRoles(tags []string) []engine.Role {
	var roles []engine.Role
	add := func(r engine.Role) {
		if !slices.Contains(roles, r) {
			roles = append(roles, r)
		}
	}
	for _, tag := range tags {
		switch tag {
		case "Marksman":
			add(engine.RoleBottom)
		case "Support":
			add(engine.RoleSupport)
		case "Mage", "Assassin":
			add(engine.RoleMid)
		case "Fighter", "Tank":
			add(engine.RoleTop)
			add(engine.RoleJungle)
		}
	}
	return roles
}

func (c *Catalog) Len() int { return len(c.champions) }

func (c *Catalog) Get(id engine.ChampionID) (Champion, bool) {
	champ, ok := c.byID[id]
	return champ, ok
}

func (c *Catalog) Contains(id engine.ChampionID) bool {
	_, ok := c.byID[id]
	return ok
}

// Filter lists champions playable in role, or all champions for an empty
// role, sorted by name. Champions in claimed are marked unavailable.
func (c *Catalog) Filter(role engine.Role, claimed []engine.ChampionID) []Entry {
	out := []Entry{}
	for _, champ := range c.champions {
		if role != "" && !slices.Contains(champ.Roles, role) {
			continue
		}
		out = append(out, Entry{Champion: champ, Available: !slices.Contains(claimed, champ.ID)})
	}
	return out
}

// Validate rejects ids missing from the catalog. The empty id and a nil
// catalog pass; the engine decides about those.
func (c *Catalog) Validate(id engine.ChampionID) error {
	if c == nil || id == "" || c.Contains(id) {
		return nil
	}
	return fmt.Errorf("%w: %q", engine.ErrInvalidChampion, id)
}
