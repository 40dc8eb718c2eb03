package lunar

import (
	"fmt"
	"sort"
	"sync"

	"github.com/lichviet/amlich-api/internal/astro"
)

// Cache stores year tables between conversions. Implementations must be
// safe for concurrent use; building the same year twice under
// contention is harmless because tables are immutable once built.
type Cache interface {
	Get(civilYear int) (*Year, bool)
	Put(civilYear int, year *Year)
}

// MemoryCache is an in-process Cache backed by a map.
type MemoryCache struct {
	mu    sync.RWMutex
	years map[int]*Year
}

// NewMemoryCache returns an empty MemoryCache.
func NewMemoryCache() *MemoryCache {
	return &MemoryCache{years: make(map[int]*Year)}
}

func (c *MemoryCache) Get(civilYear int) (*Year, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	y, ok := c.years[civilYear]
	return y, ok
}

func (c *MemoryCache) Put(civilYear int, year *Year) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.years[civilYear] = year
}

// Converter converts between Gregorian and Vietnamese lunar dates. A
// conversion costs one table lookup once the civil year's table is
// cached, so a single Converter is meant to be shared and is safe for
// concurrent use.
type Converter struct {
	cache Cache
}

// NewConverter returns a Converter backed by the given cache. A nil
// cache gets a fresh MemoryCache.
func NewConverter(cache Cache) *Converter {
	if cache == nil {
		cache = NewMemoryCache()
	}
	return &Converter{cache: cache}
}

// YearTable returns the lunar month table for a civil year, building
// and caching it on first use.
func (c *Converter) YearTable(civilYear int) (*Year, error) {
	if y, ok := c.cache.Get(civilYear); ok {
		return y, nil
	}
	y, err := BuildYear(civilYear)
	if err != nil {
		return nil, err
	}
	c.cache.Put(civilYear, y)
	return y, nil
}

// Convert returns the Vietnamese lunar date falling on the same civil
// day as the given Gregorian date.
//
// Examples:
//   - Convert(2024, 5, 24) = {17, 4, 2024, false}
//   - Convert(2023, 1, 22) = {1, 1, 2023, false}, Tet Quy Mao
//   - Convert(2025, 1, 15) = {16, 12, 2024, false}, still the old lunar year
func (c *Converter) Convert(year, month, day int) (Date, error) {
	jdn, err := astro.GregorianToJDN(year, month, day)
	if err != nil {
		return Date{}, err
	}
	table, err := c.YearTable(year)
	if err != nil {
		return Date{}, err
	}
	m, err := table.monthFor(jdn)
	if err != nil {
		return Date{}, err
	}
	return Date{
		Day:   jdn - m.Start + 1,
		Month: m.Ordinal,
		Year:  m.LunarYear,
		Leap:  m.Leap,
	}, nil
}

// ToGregorian returns the Gregorian date falling on the same civil day
// as the given lunar date.
//
// The lunar year names the year the date belongs to, so month 12 of
// lunar year Y resolves correctly even when it begins in civil year
// Y+1. A date that does not exist, like day 30 of a 29-day month or a
// leap month the year does not have, returns ErrInvalidDate.
func (c *Converter) ToGregorian(d Date) (year, month, day int, err error) {
	if d.Month < 1 || d.Month > 12 || d.Day < 1 || d.Day > 30 {
		return 0, 0, 0, fmt.Errorf("lunar date %s: %w", d, astro.ErrInvalidDate)
	}
	table, err := c.YearTable(d.Year)
	if err != nil {
		return 0, 0, 0, err
	}
	m, ok := table.lunarMonth(d.Year, d.Month, d.Leap)
	if !ok {
		// Month 12, and a rare leap 11 or 12, can begin after
		// December 31 and land in the next civil year's table.
		next, nerr := c.YearTable(d.Year + 1)
		if nerr != nil {
			return 0, 0, 0, nerr
		}
		m, ok = next.lunarMonth(d.Year, d.Month, d.Leap)
	}
	if !ok {
		return 0, 0, 0, fmt.Errorf("lunar date %s: no such month: %w", d, astro.ErrInvalidDate)
	}
	if d.Day > m.Days() {
		return 0, 0, 0, fmt.Errorf("lunar date %s: month has %d days: %w", d, m.Days(), astro.ErrInvalidDate)
	}
	year, month, day = astro.JDNToGregorian(m.Start + d.Day - 1)
	return year, month, day, nil
}

// monthFor finds the month containing a civil day via binary search
// over the ordered month starts.
func (y *Year) monthFor(jdn int) (Month, error) {
	i := sort.Search(len(y.Months), func(i int) bool { return y.Months[i].Start > jdn })
	if i == 0 || jdn >= y.Months[i-1].End {
		return Month{}, fmt.Errorf("no lunar month covers day %d in the %d table", jdn, y.CivilYear)
	}
	return y.Months[i-1], nil
}

// lunarMonth finds the month with the given lunar year, ordinal and
// leap flag, if the table holds it.
func (y *Year) lunarMonth(lunarYear, ordinal int, leap bool) (Month, bool) {
	for _, m := range y.Months {
		if m.LunarYear == lunarYear && m.Ordinal == ordinal && m.Leap == leap {
			return m, true
		}
	}
	return Month{}, false
}

// std serves the package-level convenience functions. Callers that want
// cache control construct their own Converter.
var std = NewConverter(nil)

// Convert converts a Gregorian date using a shared package-level
// converter.
func Convert(year, month, day int) (Date, error) {
	return std.Convert(year, month, day)
}

// ToGregorian converts a lunar date using a shared package-level
// converter.
func ToGregorian(d Date) (int, int, int, error) {
	return std.ToGregorian(d)
}
