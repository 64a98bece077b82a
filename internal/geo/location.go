package geo

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/abeleng/shemeta/internal/domain"
)

var (
	// "Bishoftu (8.75, 38.98)"
	labelledPointRe = regexp.MustCompile(`^(.*?)\s*\(\s*([-+]?\d*\.?\d+)\s*,\s*([-+]?\d*\.?\d+)\s*\)\s*$`)
	// "8.75, 38.98"
	barePointRe = regexp.MustCompile(`^\s*([-+]?\d*\.?\d+)\s*,\s*([-+]?\d*\.?\d+)\s*$`)
)

// Location is a parsed free-text parcel location: a name, a coordinate, or both.
type Location struct {
	Name  string
	Point *domain.Point
}

// ParseLocation accepts "Name (lat, lon)", "lat, lon", or a bare place name.
func ParseLocation(s string) (Location, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Location{}, fmt.Errorf("%w: %s", domain.ErrInvalidLocation, ErrMsgEmptyLocation)
	}

	if m := labelledPointRe.FindStringSubmatch(s); m != nil {
		p, err := parsePoint(m[2], m[3])
		if err != nil {
			return Location{}, err
		}
		return Location{Name: strings.TrimSpace(m[1]), Point: &p}, nil
	}
	if m := barePointRe.FindStringSubmatch(s); m != nil {
		p, err := parsePoint(m[1], m[2])
		if err != nil {
			return Location{}, err
		}
		return Location{Point: &p}, nil
	}
	return Location{Name: s}, nil
}

func parsePoint(latStr, lonStr string) (domain.Point, error) {
	lat, err := strconv.ParseFloat(latStr, 64)
	if err != nil {
		return domain.Point{}, fmt.Errorf("%w: %v", domain.ErrInvalidLocation, err)
	}
	lon, err := strconv.ParseFloat(lonStr, 64)
	if err != nil {
		return domain.Point{}, fmt.Errorf("%w: %v", domain.ErrInvalidLocation, err)
	}
	if lat < -90 || lat > 90 || lon < -180 || lon > 180 {
		return domain.Point{}, fmt.Errorf("%w: %s", domain.ErrInvalidLocation, ErrMsgInvalidCoordinates)
	}
	return domain.Point{Lat: lat, Lon: lon}, nil
}

// normalizeName folds case and whitespace for name lookups.
func normalizeName(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(s)), " ")
}
