package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestAddDomain(t *testing.T) {
	var a CanonicalAccount
	a.AddDomain("acme.com")
	a.AddDomain("acme.io")
	a.AddDomain("acme.com")
	a.AddDomain("ACME.COM")
	a.AddDomain("")

	assert.Equal(t, []string{"acme.com", "acme.io"}, a.Domains)
}

func TestHasDomain(t *testing.T) {
	a := CanonicalAccount{Domains: []string{"acme.com"}}
	assert.True(t, a.HasDomain("acme.com"))
	assert.True(t, a.HasDomain("Acme.COM"))
	assert.False(t, a.HasDomain("acme.io"))
	assert.False(t, a.HasDomain(""))
}

func TestDateRangeOrDefault(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	full := DateRange{
		Start: now.AddDate(0, 0, -7),
		End:   now.AddDate(0, 0, -1),
	}
	assert.Equal(t, full, full.OrDefault(now))

	empty := DateRange{}.OrDefault(now)
	assert.Equal(t, now, empty.End)
	assert.Equal(t, now.AddDate(0, 0, -30), empty.Start)

	endOnly := DateRange{End: now.AddDate(0, 0, -5)}.OrDefault(now)
	assert.Equal(t, now.AddDate(0, 0, -5), endOnly.End)
	assert.Equal(t, endOnly.End.AddDate(0, 0, -30), endOnly.Start)
}
