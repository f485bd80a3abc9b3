package geo

import (
	"fmt"
	"net"

	"github.com/oschwald/geoip2-golang"
	"go.uber.org/zap"
)

// Facts holds the geolocation facts for a single IP address. Pointer fields
// stay nil when the database has no value for them.
type Facts struct {
	Country     string
	CountryCode string
	Region      string
	City        string
	Latitude    *float64
	Longitude   *float64
	Timezone    string
	IsEU        bool
	MetroCode   *int
}

// Resolver looks up geolocation facts for an IP address. Lookup is a pure
// in-process operation, never a network call, and returns nil when the
// address cannot be resolved.
type Resolver interface {
	Lookup(ip string) *Facts
}

// MaxMindResolver resolves IPs against a local MaxMind GeoLite2/GeoIP2
// city database.
type MaxMindResolver struct {
	reader *geoip2.Reader
	log    *zap.Logger
}

// NewMaxMind opens the database at the given path.
func NewMaxMind(dbPath string, log *zap.Logger) (*MaxMindResolver, error) {
	reader, err := geoip2.Open(dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open GeoIP database: %w", err)
	}

	log.Info("GeoIP database loaded", zap.String("path", dbPath))
	return &MaxMindResolver{reader: reader, log: log}, nil
}

// Lookup resolves the facts for an IP. Unparseable addresses and lookup
// errors yield nil; the analytics path fills in its own defaults.
func (r *MaxMindResolver) Lookup(ip string) *Facts {
	parsed := net.ParseIP(ip)
	if parsed == nil {
		return nil
	}

	city, err := r.reader.City(parsed)
	if err != nil {
		r.log.Debug("GeoIP lookup failed", zap.String("ip", ip), zap.Error(err))
		return nil
	}

	facts := &Facts{
		Country:     city.Country.Names["en"],
		CountryCode: city.Country.IsoCode,
		City:        city.City.Names["en"],
		Timezone:    city.Location.TimeZone,
		IsEU:        city.Country.IsInEuropeanUnion,
	}
	if len(city.Subdivisions) > 0 {
		facts.Region = city.Subdivisions[0].IsoCode
	}
	if city.Location.Latitude != 0 || city.Location.Longitude != 0 {
		lat, lon := city.Location.Latitude, city.Location.Longitude
		facts.Latitude = &lat
		facts.Longitude = &lon
	}
	if city.Location.MetroCode != 0 {
		metro := int(city.Location.MetroCode)
		facts.MetroCode = &metro
	}

	return facts
}

// Close releases the underlying database reader.
func (r *MaxMindResolver) Close() error {
	return r.reader.Close()
}

// Disabled is a Resolver that never resolves anything. It is used when no
// GeoIP database is configured; the analytics recorder then records
// "Unknown" geo fields.
type Disabled struct{}

// Lookup always returns nil.
func (Disabled) Lookup(string) *Facts {
	return nil
}
