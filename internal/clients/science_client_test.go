package clients

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"andromeda/internal/models"
)

func formServer(t *testing.T, response string, capture *url.Values) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "POST", r.Method)
		assert.Equal(t, "application/x-www-form-urlencoded", r.Header.Get("Content-Type"))
		require.NoError(t, r.ParseForm())
		*capture = r.PostForm
		w.Write([]byte(response))
	}))
}

func TestListMissionsForm(t *testing.T) {
	var form url.Values
	server := formServer(t, `{}`, &form)
	defer server.Close()

	client := NewScienceClient(ScienceConfig{BaseURL: server.URL, Pipeline: "o,e,c,p"})
	place := models.ObservationPlace{Latitude: 48.85, Longitude: 2.35, AltMin: 20, AltMax: 80, AzMin: 0, AzMax: 360}

	body, err := client.ListMissions(context.Background(), place, "2025-06-01T12:00", "2025-06-03T12:00")
	require.NoError(t, err)
	assert.Equal(t, `{}`, string(body))

	assert.Equal(t, "get-science-events", form.Get("action"))
	assert.Equal(t, "2025-06-01T12:00", form.Get("date"))
	assert.Equal(t, "2025-06-03T12:00", form.Get("tend"))
	assert.Equal(t, "o,e,c,p", form.Get("pipeline"))
	assert.Equal(t, "48.85", form.Get("lat"))
	assert.Equal(t, "2.35", form.Get("long"))
	assert.Equal(t, "20,80", form.Get("alt"))
	assert.Equal(t, "0,360", form.Get("az"))
}

func TestFetchEphemerisForm(t *testing.T) {
	var form url.Values
	server := formServer(t, `[]`, &form)
	defer server.Close()

	client := NewScienceClient(ScienceConfig{BaseURL: server.URL})
	args := models.EphemerisArgs{
		Name:     "C/2025 A1",
		Loc:      "48.85, 2.35",
		TStart:   "2025-06-01T20:00",
		Duration: "3600.0",
		ExpTime:  "4000.5",
		Gain:     "25",
		IsComet:  "true",
	}

	_, err := client.FetchEphemeris(context.Background(), args)
	require.NoError(t, err)

	assert.Equal(t, "get-ephemerid", form.Get("action"))
	assert.Equal(t, "C/2025 A1", form.Get("name"))
	assert.Equal(t, "48.85", form.Get("lat"))
	assert.Equal(t, "2.35", form.Get("lng"))
	assert.Equal(t, "10", form.Get("step"))
	// дробные значения усекаются до целой части
	assert.Equal(t, "3600", form.Get("duration"))
	assert.Equal(t, "4000", form.Get("et"))
	assert.Equal(t, "25", form.Get("gain"))
	assert.Equal(t, "true", form.Get("is_comet"))
}

func TestFetchEphemerisDefaultsIsComet(t *testing.T) {
	var form url.Values
	server := formServer(t, `[]`, &form)
	defer server.Close()

	client := NewScienceClient(ScienceConfig{BaseURL: server.URL})
	_, err := client.FetchEphemeris(context.Background(), models.EphemerisArgs{Name: "X", Loc: "1,2"})
	require.NoError(t, err)

	assert.Equal(t, "false", form.Get("is_comet"))
}

func TestFetchEphemerisRejectsMalformedLocation(t *testing.T) {
	client := NewScienceClient(ScienceConfig{BaseURL: "http://unused"})

	_, err := client.FetchEphemeris(context.Background(), models.EphemerisArgs{Name: "X", Loc: "48.85"})
	assert.Error(t, err)
}

func TestListMissionsNonOKStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	client := NewScienceClient(ScienceConfig{BaseURL: server.URL})
	_, err := client.ListMissions(context.Background(), models.ObservationPlace{}, "2025-06-01T12:00", "2025-06-03T12:00")
	assert.ErrorContains(t, err, "502")
}

func TestIntegerPrefix(t *testing.T) {
	assert.Equal(t, "120", integerPrefix("120.5"))
	assert.Equal(t, "120", integerPrefix("120"))
	assert.Equal(t, "", integerPrefix(""))
}
