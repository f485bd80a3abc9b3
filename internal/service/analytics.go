package service

import (
	"Linklytics-Backend/internal/repository"
	"context"
	"fmt"
	"sort"
	"strings"
)

const (
	topN         = 10
	unknownValue = "Unknown"
)

// AnalyticItem is one ranked value of an analytics dimension.
type AnalyticItem struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

// LinkAnalytics is the full per-link breakdown returned to the owner.
type LinkAnalytics struct {
	Clicks           int            `json:"clicks"`
	Referrers        []AnalyticItem `json:"referrers"`
	Countries        []AnalyticItem `json:"countries"`
	Browsers         []AnalyticItem `json:"browsers"`
	OperatingSystems []AnalyticItem `json:"operating_systems"`
	DeviceTypes      []AnalyticItem `json:"device_types"`
}

// AnalyticsService aggregates stored analytics records on demand.
type AnalyticsService struct {
	storage repository.Storage
}

func NewAnalyticsService(storage repository.Storage) *AnalyticsService {
	return &AnalyticsService{storage: storage}
}

// LinkAnalytics scans all records of a link and produces the ranked top-10
// breakdown per dimension. The ownership check happens at the handler, not
// here. Returns ErrLinkNotFound when the link does not exist.
func (s *AnalyticsService) LinkAnalytics(ctx context.Context, linkID int64) (*LinkAnalytics, error) {
	if _, err := s.storage.GetLinkByID(ctx, linkID); err != nil {
		return nil, err
	}

	records, err := s.storage.ListAnalyticsByLink(ctx, linkID)
	if err != nil {
		return nil, fmt.Errorf("failed to load analytics records: %w", err)
	}

	referrers := make([]string, 0, len(records))
	countries := make([]string, 0, len(records))
	deviceTypes := make([]string, 0, len(records))
	browsers := make([]nameVersion, 0, len(records))
	operatingSystems := make([]nameVersion, 0, len(records))

	for _, rec := range records {
		referrers = append(referrers, rec.Referer)
		countries = append(countries, rec.Country)
		deviceTypes = append(deviceTypes, rec.DeviceType)
		browsers = append(browsers, nameVersion{rec.Browser, rec.BrowserVersion})
		operatingSystems = append(operatingSystems, nameVersion{rec.OS, rec.OSVersion})
	}

	return &LinkAnalytics{
		Clicks:           len(records),
		Referrers:        aggregateAndSort(referrers),
		Countries:        aggregateAndSort(countries),
		Browsers:         aggregateComposite(browsers),
		OperatingSystems: aggregateComposite(operatingSystems),
		DeviceTypes:      aggregateAndSort(deviceTypes),
	}, nil
}

type nameVersion struct {
	name    string
	version string
}

// aggregateComposite collapses name+version pairs on the composite key
// "<name> <version>", trimmed so an empty version is omitted.
func aggregateComposite(pairs []nameVersion) []AnalyticItem {
	keys := make([]string, 0, len(pairs))
	for _, p := range pairs {
		name := p.name
		if name == "" {
			name = unknownValue
		}
		keys = append(keys, strings.TrimSpace(name+" "+p.version))
	}
	return aggregateAndSort(keys)
}

// aggregateAndSort counts distinct values (empty counts as "Unknown"),
// sorts by count descending and keeps the top 10. Equal counts stay in
// first-seen order, which makes the ranking deterministic.
func aggregateAndSort(values []string) []AnalyticItem {
	counts := make(map[string]int, len(values))
	order := make([]string, 0, len(values))

	for _, v := range values {
		if v == "" {
			v = unknownValue
		}
		if _, seen := counts[v]; !seen {
			order = append(order, v)
		}
		counts[v]++
	}

	items := make([]AnalyticItem, 0, len(order))
	for _, name := range order {
		items = append(items, AnalyticItem{Name: name, Count: counts[name]})
	}

	sort.SliceStable(items, func(i, j int) bool {
		return items[i].Count > items[j].Count
	})

	if len(items) > topN {
		items = items[:topN]
	}
	return items
}
