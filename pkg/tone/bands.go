package tone

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// DefaultTone is used when a grade falls outside every band.
const DefaultTone = "retorno padrão, focando em análise de desempenho e próximos passos."

type Resolver interface {
	Resolve(grade float64) string
	Bands() []Band
}

// Band maps an inclusive grade range to a tone description.
type Band struct {
	Min         float64 `yaml:"min"`
	Max         float64 `yaml:"max"`
	Description string  `yaml:"description"`
}

// DefaultBands are the four tone bands on the 0–10 scale.
var DefaultBands = []Band{
	{Min: 0, Max: 3, Description: "retorno com foco em incentivo e reorientação para estudo, destacando a importância da dedicação e fornecendo caminhos para a melhoria."},
	{Min: 4, Max: 6, Description: "retorno destacando avanços e pontos que precisam de mais atenção, incentivando a prática e o aprofundamento em tópicos específicos."},
	{Min: 7, Max: 9, Description: "retorno elogiando o progresso e sugerindo aprimoramentos, com foco em refinar habilidades e buscar a excelência."},
	{Min: 10, Max: 10, Description: "retorno de excelência, reforçando o mérito e engajamento do aluno, parabenizando o desempenho exemplar e incentivando a continuar se superando."},
}

type span struct {
	Band
	until float64 // exclusive reach past Max, up to the next band's Min
}

type resolver struct {
	spans []span
}

// New builds a resolver over bands, kept in the given order. A band also covers
// grades above its Max that are below the next band's Min, so integer-bounded
// bands leave no gap for fractional grades.
func New(bands []Band) Resolver {
	r := &resolver{spans: make([]span, len(bands))}
	for i, b := range bands {
		r.spans[i] = span{Band: b, until: b.Max}
		if i+1 < len(bands) && bands[i+1].Min > b.Max {
			r.spans[i].until = bands[i+1].Min
		}
	}
	return r
}

// Default is the resolver over DefaultBands.
func Default() Resolver { return New(DefaultBands) }

func (r *resolver) Resolve(grade float64) string {
	for _, s := range r.spans {
		if grade >= s.Min && (grade <= s.Max || grade < s.until) {
			return s.Description
		}
	}
	return DefaultTone
}

func (r *resolver) Bands() []Band {
	out := make([]Band, len(r.spans))
	for i, s := range r.spans {
		out[i] = s.Band
	}
	return out
}

// LoadFromFile reads bands from a .csv or .yaml/.yml file. Bands are sorted by Min.
func LoadFromFile(path string) (Resolver, error) {
	var (
		bands []Band
		err   error
	)
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		bands, err = loadCSV(path)
	case ".yaml", ".yml":
		bands, err = loadYAML(path)
	default:
		return nil, fmt.Errorf("grade bands: unsupported file extension %q", filepath.Ext(path))
	}
	if err != nil {
		return nil, err
	}
	if err := validate(bands); err != nil {
		return nil, err
	}
	sort.SliceStable(bands, func(i, j int) bool { return bands[i].Min < bands[j].Min })
	return New(bands), nil
}

func loadYAML(path string) ([]Band, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var doc struct {
		Bands []Band `yaml:"bands"`
	}
	if err := yaml.Unmarshal(b, &doc); err != nil {
		return nil, fmt.Errorf("grade bands yaml: %w", err)
	}
	return doc.Bands, nil
}

func loadCSV(path string) ([]Band, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	cr := csv.NewReader(f)
	head, err := cr.Read()
	if err != nil {
		return nil, err
	}

	norm := func(s string) string {
		s = strings.TrimSpace(s)
		s = strings.TrimPrefix(s, "\uFEFF") // BOM
		s = strings.ToLower(s)
		s = strings.ReplaceAll(s, " ", "")
		s = strings.ReplaceAll(s, "_", "")
		return s
	}
	hmap := map[string]int{}
	for i, h := range head {
		hmap[norm(h)] = i
	}
	findAny := func(keys ...string) int {
		for _, k := range keys {
			if idx, ok := hmap[norm(k)]; ok {
				return idx
			}
		}
		return -1
	}

	cMin := findAny("min", "from", "min_grade")
	cMax := findAny("max", "to", "max_grade")
	cDesc := findAny("description", "tone", "descricao")
	if cMin == -1 || cMax == -1 || cDesc == -1 {
		return nil, fmt.Errorf("grade bands csv missing required columns. Found headers: %v, need: min, max, description", head)
	}

	var bands []Band
	for line := 2; ; line++ {
		rec, err := cr.Read()
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, err
		}
		get := func(idx int) string {
			if idx < 0 || idx >= len(rec) {
				return ""
			}
			return strings.TrimSpace(rec[idx])
		}
		lo, err := strconv.ParseFloat(get(cMin), 64)
		if err != nil {
			return nil, fmt.Errorf("grade bands csv line %d: bad min %q", line, get(cMin))
		}
		hi, err := strconv.ParseFloat(get(cMax), 64)
		if err != nil {
			return nil, fmt.Errorf("grade bands csv line %d: bad max %q", line, get(cMax))
		}
		bands = append(bands, Band{Min: lo, Max: hi, Description: get(cDesc)})
	}
	return bands, nil
}

func validate(bands []Band) error {
	if len(bands) == 0 {
		return errors.New("grade bands: no bands loaded")
	}
	for i, b := range bands {
		if b.Min > b.Max {
			return fmt.Errorf("grade bands: band %d has min %.1f above max %.1f", i, b.Min, b.Max)
		}
		if strings.TrimSpace(b.Description) == "" {
			return fmt.Errorf("grade bands: band %d has no description", i)
		}
	}
	return nil
}
