package dataset

import (
	"fmt"
	"os"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/riskibarqy/matchday-features/internal/normalizer"
	"github.com/riskibarqy/matchday-features/internal/usecase"
	"gopkg.in/yaml.v3"
)

// Manifest lists the competitions and seasons one build run covers.
type Manifest struct {
	Roster       string        `yaml:"roster"`
	Output       string        `yaml:"output"`
	Format       string        `yaml:"format"`
	Competitions []Competition `yaml:"competitions" validate:"required,min=1,dive"`
}

type Competition struct {
	Name    string   `yaml:"name" validate:"required"`
	Vendor  string   `yaml:"vendor" validate:"required,oneof=football-data xmlsoccer"`
	Code    string   `yaml:"code"`
	Seasons []Season `yaml:"seasons" validate:"required,min=1,dive"`
}

type Season struct {
	Label     string `yaml:"label" validate:"required"`
	StartYear int    `yaml:"start_year" validate:"required,gte=1900"`
}

func LoadManifest(path string) (Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Manifest{}, fmt.Errorf("read manifest: %w", err)
	}
	return ParseManifest(data)
}

func ParseManifest(data []byte) (Manifest, error) {
	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return Manifest{}, fmt.Errorf("%w: parse manifest: %v", usecase.ErrInvalidInput, err)
	}
	if err := validator.New(validator.WithRequiredStructEnabled()).Struct(m); err != nil {
		return Manifest{}, fmt.Errorf("%w: manifest: %v", usecase.ErrInvalidInput, err)
	}
	return m, nil
}

// Requests expands the manifest into one fetch request per season.
func (m Manifest) Requests() []usecase.SeasonRequest {
	var out []usecase.SeasonRequest
	for _, c := range m.Competitions {
		code := strings.TrimSpace(c.Code)
		if code == "" {
			code = c.Name
		}
		for _, s := range c.Seasons {
			out = append(out, usecase.SeasonRequest{
				Vendor:          normalizer.Vendor(c.Vendor),
				Competition:     c.Name,
				CompetitionCode: code,
				Season:          s.Label,
				StartYear:       s.StartYear,
			})
		}
	}
	return out
}
