package nbu

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleResponse = `<?xml version="1.0" encoding="utf-8"?>
<exchange>
  <currency>
    <r030>978</r030>
    <txt>Євро</txt>
    <rate>48.1502</rate>
    <cc>EUR</cc>
    <exchangedate>28.08.2026</exchangedate>
  </currency>
  <currency>
    <r030>840</r030>
    <txt>Долар США</txt>
    <rate>41.2988</rate>
    <cc>USD</cc>
    <exchangedate>28.08.2026</exchangedate>
  </currency>
</exchange>`

func TestParseXMLResponse(t *testing.T) {
	rate, err := parseXMLResponse([]byte(sampleResponse), "USD")
	require.NoError(t, err)
	assert.InDelta(t, 41.2988, rate, 1e-9)

	rate, err = parseXMLResponse([]byte(sampleResponse), "EUR")
	require.NoError(t, err)
	assert.InDelta(t, 48.1502, rate, 1e-9)
}

func TestParseXMLResponse_UnknownCurrency(t *testing.T) {
	_, err := parseXMLResponse([]byte(sampleResponse), "JPY")
	assert.Error(t, err)
}

func TestParseXMLResponse_BadXML(t *testing.T) {
	_, err := parseXMLResponse([]byte("<exchange"), "USD")
	assert.Error(t, err)
}
