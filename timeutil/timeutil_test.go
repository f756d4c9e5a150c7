package timeutil

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDayMonth(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"as from 15/06", "06-15"},
		{"until 31-07", "07-31"},
		{"01/03 - 15/06", "06-15"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := DayMonth(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	_, err := DayMonth("no date here")
	assert.ErrorIs(t, err, ErrFormat)

	for _, bad := range []string{"as from 45/19", "until 31/04", "as from 00-05", "15/13"} {
		_, err := DayMonth(bad)
		assert.ErrorIs(t, err, ErrFormat, "DayMonth(%q)", bad)
	}

	got, err := DayMonth("as from 29/02")
	require.NoError(t, err)
	assert.Equal(t, "02-29", got)

	got, err = DayMonth("01/03 - 31/04")
	require.NoError(t, err)
	assert.Equal(t, "03-01", got, "impossible trailing pair is skipped")
}

func TestConvertDate(t *testing.T) {
	got, err := ConvertDate("30 July 2022")
	require.NoError(t, err)
	assert.Equal(t, "2022-07-30", got)

	got, err = ConvertDate("3 March 2024")
	require.NoError(t, err)
	assert.Equal(t, "2024-03-03", got)

	_, err = ConvertDate("July 30th")
	assert.ErrorIs(t, err, ErrFormat)
}

func TestComposeDate(t *testing.T) {
	got, err := ComposeDate("05.07", "2022")
	require.NoError(t, err)
	assert.Equal(t, "2022-07-05", got)

	for _, bad := range [][2]string{
		{"", "2022"}, {"05.07", ""}, {"5 July", "2022"}, {"32.01", "2022"},
		{"30.02", "2023"}, {"31.04", "2023"}, {"29.02", "2023"}, {"00.05", "2023"},
	} {
		_, err := ComposeDate(bad[0], bad[1])
		assert.ErrorIs(t, err, ErrFormat, "ComposeDate(%q, %q)", bad[0], bad[1])
	}

	got, err = ComposeDate("29.02", "2024")
	require.NoError(t, err)
	assert.Equal(t, "2024-02-29", got)
}

func TestBirthdate(t *testing.T) {
	got, err := Birthdate("21st", "September", "1998")
	require.NoError(t, err)
	assert.Equal(t, "1998-09-21", got)

	_, err = Birthdate("21st", "Septober", "1998")
	assert.Error(t, err)
}

func TestFormatTime(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"4:05", "0:04:05"},
		{"12:34", "0:12:34"},
		{"1:02:03", "1:02:03"},
		{"31:03:11", "31:03:11"},
		{"0:9", "0:00:09"},
		{"12.34,56", "0:12:34.56"},
		{"1.02.03,5", "1:02:03.5"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := FormatTime(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	for _, bad := range []string{"", "-", "abc", "1:2:3:4"} {
		_, err := FormatTime(bad)
		assert.Error(t, err, "FormatTime(%q)", bad)
	}
}

func TestParseTimeAndDuration(t *testing.T) {
	d, err := ParseTime("1:02:03.5")
	require.NoError(t, err)
	assert.Equal(t, time.Hour+2*time.Minute+3*time.Second+500*time.Millisecond, d)
	assert.Equal(t, "1:02:03.50", Duration(d))
	assert.Equal(t, "26:00:00", Duration(26*time.Hour))
}

func TestAddTimes(t *testing.T) {
	got, err := AddTimes("4:10:12", "0:12")
	require.NoError(t, err)
	assert.Equal(t, "4:10:24", got)

	got, err = AddTimes("23:59:30", "1:00")
	require.NoError(t, err)
	assert.Equal(t, "24:00:30", got)

	got, err = AddTimes("", "1:00")
	require.NoError(t, err)
	assert.Equal(t, "0:00:00", got)

	_, err = AddTimes("4:10:12", "x")
	assert.Error(t, err)
}
