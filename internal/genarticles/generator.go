package genarticles

import (
	"context"
	"crypto/rand"
	"fmt"
	"math/big"
	"time"

	"github.com/okian/sitrep/pkg/logger"
)

// Constants for random number generation.
const (
	randomFloatDivisor = 1000000
	maxReportDelayMin  = 90
	maxIncidentAgeMin  = 24 * 60
)

// Casualty figure bounds.
const (
	casualtyMin   = 0
	casualtyRange = 40
	// casualtyJitter lets a second outlet report a slightly different
	// figure, which exercises the casualty consensus check.
	casualtyJitter = 3
)

// incidentTemplate describes one class of simulated incident. Title and
// description formats take a casualty count and a city name.
type incidentTemplate struct {
	kind       string
	titleForms []string
	descForms  []string
}

// Incident classes mirror the wire coverage the pipeline categorizes:
// strikes, drone and rocket attacks, air-raid alerts, and talks.
var incidentTemplates = []incidentTemplate{
	{
		kind: "missile",
		titleForms: []string{
			"Missile strike kills %d in %s",
			"%d dead after missile hits %s",
		},
		descForms: []string{
			"A missile fired overnight struck a residential district of %[2]s, killing at least %[1]d people, officials said.",
			"Rescue workers recovered %[1]d bodies after a missile slammed into central %[2]s.",
		},
	},
	{
		kind: "drone",
		titleForms: []string{
			"Drone attack wounds %d near %s",
			"Explosions reported in %[2]s after drone raid, %[1]d injured",
		},
		descForms: []string{
			"A wave of drones targeted %[2]s before dawn, wounding %[1]d residents according to emergency services.",
			"Air defenses engaged drones over %[2]s; %[1]d people were treated for injuries from falling debris.",
		},
	},
	{
		kind: "shelling",
		titleForms: []string{
			"Artillery shelling kills %d in %s",
			"%d killed as shells land in %s",
		},
		descForms: []string{
			"Sustained artillery shelling struck the outskirts of %[2]s, leaving %[1]d dead and several buildings destroyed.",
			"Shells hit a market area in %[2]s on Tuesday, killing %[1]d according to local authorities.",
		},
	},
	{
		kind: "alert",
		titleForms: []string{
			"Air raid sirens sound across %[2]s",
			"%[2]s residents told to shelter as sirens blare",
		},
		descForms: []string{
			"Sirens warned of incoming rockets over %[2]s this morning; residents were urged to evacuate to shelters.",
			"Authorities ordered people in %[2]s into shelters after radar detected an inbound rocket barrage.",
		},
	},
	{
		kind: "diplomacy",
		titleForms: []string{
			"Ceasefire talks resume in %[2]s",
			"Negotiators meet in %[2]s for ceasefire discussions",
		},
		descForms: []string{
			"Delegations arrived in %[2]s for a new round of ceasefire negotiations brokered by intermediaries.",
			"Diplomatic talks on a ceasefire agreement continued in %[2]s, with officials citing cautious progress.",
		},
	},
}

// Cities the extraction gazetteer recognizes; using them keeps the
// generated load representative of real coverage.
var cities = []string{
	"Tel Aviv", "Tehran", "Haifa", "Isfahan", "Jerusalem",
	"Beirut", "Damascus", "Gaza", "Tabriz", "Geneva",
}

// Wire services first; the verifier weighs them higher.
var sources = []string{"Reuters", "AP", "AFP", "BBC", "Al Jazeera", "Local Desk"}

const wireSourceCount = 3

// randomInt returns a uniform value in [0, n) using crypto/rand.
func randomInt(n int) int {
	v, _ := rand.Int(rand.Reader, big.NewInt(int64(n)))
	return int(v.Int64())
}

// getRandomFloat returns a random float64 between 0.0 and 1.0 using crypto/rand.
func getRandomFloat() float64 {
	n, _ := rand.Int(rand.Reader, big.NewInt(randomFloatDivisor))
	return float64(n.Int64()) / float64(randomFloatDivisor)
}

// generateArticles simulates config.NumIncidents incidents and returns
// the articles covering them. Most incidents get two or three
// corroborating reports from distinct outlets so the deduplicator and
// verifier both have work to do; a minority stay single-source.
func generateArticles(ctx context.Context, config *Config, stats *Stats) ([]Article, error) {
	logger.Get().Info(ctx, "generating incident coverage", logger.Int("incidents", config.NumIncidents))

	var articles []Article
	for i := 0; i < config.NumIncidents; i++ {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("context cancelled during generation: %w", err)
		}
		articles = append(articles, generateIncident()...)
	}

	stats.IncidentsGenerated = config.NumIncidents
	stats.ArticlesGenerated = len(articles)
	logger.Get().Info(ctx, "generated articles",
		logger.Int("incidents", config.NumIncidents),
		logger.Int("articles", len(articles)))

	return articles, nil
}

// generateIncident produces 1-3 reports of a single simulated incident.
func generateIncident() []Article {
	tpl := incidentTemplates[randomInt(len(incidentTemplates))]
	city := cities[randomInt(len(cities))]
	casualties := casualtyMin + randomInt(casualtyRange)
	occurred := time.Now().UTC().Add(-time.Duration(randomInt(maxIncidentAgeMin)) * time.Minute)

	// 1 source 25%, 2 sources 50%, 3 sources 25%
	sourceCount := 1
	switch roll := getRandomFloat(); {
	case roll < 0.25:
		sourceCount = 1
	case roll < 0.75:
		sourceCount = 2
	default:
		sourceCount = 3
	}

	// Lead report from a wire service, follow-ups from anywhere else.
	picked := []string{sources[randomInt(wireSourceCount)]}
	for len(picked) < sourceCount {
		candidate := sources[randomInt(len(sources))]
		if !contains(picked, candidate) {
			picked = append(picked, candidate)
		}
	}

	articles := make([]Article, 0, len(picked))
	for n, source := range picked {
		count := casualties
		if n > 0 && count > 0 {
			// Follow-up reports disagree a little.
			count += randomInt(2*casualtyJitter+1) - casualtyJitter
			if count < 0 {
				count = 0
			}
		}
		reported := occurred.Add(time.Duration(randomInt(maxReportDelayMin)) * time.Minute)

		titleForm := tpl.titleForms[n%len(tpl.titleForms)]
		descForm := tpl.descForms[n%len(tpl.descForms)]

		articles = append(articles, Article{
			Title:       fmt.Sprintf(titleForm, count, city),
			Description: fmt.Sprintf(descForm, count, city),
			PublishedAt: reported.Format(time.RFC3339),
			Source:      source,
		})
	}
	return articles
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
