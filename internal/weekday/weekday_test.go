package weekday

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestShortName_EnglishWeek(t *testing.T) {
	// 2024-03-04 is a Monday.
	monday := time.Date(2024, 3, 4, 12, 0, 0, 0, time.UTC)
	expected := []string{"MON", "TUE", "WED", "THU", "FRI", "SAT", "SUN"}

	for i, want := range expected {
		day := monday.AddDate(0, 0, i)
		t.Run(want, func(t *testing.T) {
			got, err := ShortName(day, DefaultLocale)
			require.NoError(t, err)
			assert.Equal(t, want, got)
		})
	}
}

func TestShortName_LocaleForms(t *testing.T) {
	monday := time.Date(2024, 3, 4, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name   string
		locale string
	}{
		{name: "POSIX with codeset", locale: "en_US.UTF-8"},
		{name: "Bare locale", locale: "en_US"},
		{name: "Modifier", locale: "en_US@posix"},
		{name: "Other English locale", locale: "en_GB.UTF-8"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ShortName(monday, tt.locale)
			require.NoError(t, err)
			assert.Equal(t, "MON", got)
		})
	}
}

func TestShortName_UnsupportedLocale(t *testing.T) {
	_, err := ShortName(time.Now(), "xx_YY.UTF-8")

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnsupportedLocale)
	assert.False(t, Supported("xx_YY"))
	assert.True(t, Supported(DefaultLocale))
}

func TestNewResolver(t *testing.T) {
	r, err := NewResolver("", nil)
	require.NoError(t, err)
	assert.Equal(t, DefaultLocale, r.Locale())

	got, err := r.ShortName(time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Equal(t, "TUE", got)

	_, err = NewResolver("zz_ZZ", nil)
	assert.ErrorIs(t, err, ErrUnsupportedLocale)
}

func TestResolver_Location(t *testing.T) {
	// Tuesday 03:00 UTC is still Monday evening at UTC-6.
	ts := time.Date(2024, 3, 5, 3, 0, 0, 0, time.UTC)
	utcMinus6 := time.FixedZone("UTC-6", -6*60*60)

	tests := []struct {
		name     string
		location *time.Location
		input    time.Time
		expected string
	}{
		{name: "UTC", location: time.UTC, input: ts, expected: "TUE"},
		{name: "Western offset", location: utcMinus6, input: ts, expected: "MON"},
		{name: "Nil keeps timestamp zone", location: nil, input: ts.In(utcMinus6), expected: "MON"},
		{name: "Converts from other zone", location: time.UTC, input: ts.In(utcMinus6), expected: "TUE"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, err := NewResolver(DefaultLocale, tt.location)
			require.NoError(t, err)

			got, err := r.ShortName(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestResolver_IgnoresProcessLocal(t *testing.T) {
	original := time.Local
	time.Local = time.FixedZone("UTC+10", 10*60*60)
	defer func() { time.Local = original }()

	// Monday 20:00 UTC is Tuesday at UTC+10.
	ts := time.Date(2024, 3, 4, 20, 0, 0, 0, time.UTC).Local()

	r, err := NewResolver(DefaultLocale, time.UTC)
	require.NoError(t, err)

	got, err := r.ShortName(ts)
	require.NoError(t, err)
	assert.Equal(t, "MON", got)
}

func TestShortName_ConcurrentLocales(t *testing.T) {
	monday := time.Date(2024, 3, 4, 12, 0, 0, 0, time.UTC)

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			got, err := ShortName(monday, DefaultLocale)
			assert.NoError(t, err)
			assert.Equal(t, "MON", got)
		}()
	}
	wg.Wait()
}
