package api

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mixes-tracker/internal/config"
	"mixes-tracker/internal/steamid"
)

func testClient(baseURL string) *LogsTFClient {
	return NewLogsTFClient(&config.Config{
		ArchiveBaseURL: baseURL,
		CourtesyDelay:  0,
		RetryAttempts:  2,
		RetryDelay:     time.Millisecond,
	}, zerolog.Nop())
}

func testPlayer() steamid.SteamID {
	return steamid.FromParts(steamid.UniversePublic, steamid.AccountIndividual, 46143802)
}

func TestSearchPlayerLogs(t *testing.T) {
	var gotQuery string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.RawQuery
		w.Write([]byte(`{"success":true,"results":2,"logs":[
			{"id":102,"date":1700000200,"map":"cp_gullywash_f9","players":12},
			{"id":105,"date":1700000300,"map":"cp_process_final","players":12}
		]}`))
	}))
	defer srv.Close()

	summaries, err := testClient(srv.URL).SearchPlayerLogs(context.Background(), testPlayer(), "", 500)
	require.NoError(t, err)

	require.Len(t, summaries, 2)
	// Newest first regardless of the order the archive returned.
	assert.Equal(t, uint32(105), summaries[0].ID)
	assert.Equal(t, uint32(102), summaries[1].ID)
	assert.Equal(t, "cp_process_final", summaries[0].Map)
	assert.Equal(t, 12, summaries[0].PlayerCount)
	assert.Equal(t, time.Unix(1700000300, 0).UTC(), summaries[0].PlayedAt)

	assert.Contains(t, gotQuery, "player=76561198006409530")
	assert.Contains(t, gotQuery, "limit=500")
}

func TestSearchPlayerLogsClampsLimit(t *testing.T) {
	var gotLimit string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotLimit = r.URL.Query().Get("limit")
		w.Write([]byte(`{"success":true,"results":0,"logs":[]}`))
	}))
	defer srv.Close()

	_, err := testClient(srv.URL).SearchPlayerLogs(context.Background(), testPlayer(), "", 50000)
	require.NoError(t, err)
	assert.Equal(t, "10000", gotLimit)
}

func TestDownloadLog(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/105", r.URL.Path)
		w.Write([]byte(`{"success":true,
			"info":{"map":"cp_process_final","total_length":1800,"date":1700000300},
			"teams":{"Red":{"score":3},"Blue":{"score":2}},
			"players":{"[U:1:46143802]":{"team":"Red","kills":20,"dmg":7000,
				"class_stats":[{"type":"soldier","kills":20,"dmg":7000,"total_time":1800}]}},
			"names":{"[U:1:46143802]":"soldier main"}}`))
	}))
	defer srv.Close()

	raw, err := testClient(srv.URL).DownloadLog(context.Background(), 105)
	require.NoError(t, err)

	assert.Equal(t, 1800, raw.Info.TotalLength)
	assert.Equal(t, 3, raw.Teams["Red"].Score)

	player := raw.Players["[U:1:46143802]"]
	assert.Equal(t, 20, player.Kills)
	assert.Equal(t, 7000, player.Damage)
	require.Len(t, player.ClassStats, 1)
	assert.Equal(t, "soldier", player.ClassStats[0].Type)
}

func TestQueryRetriesRejection(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		if calls < 3 {
			w.Write([]byte(`{"success":false,"error":"overloaded"}`))
			return
		}
		w.Write([]byte(`{"success":true,"results":0,"logs":[]}`))
	}))
	defer srv.Close()

	_, err := testClient(srv.URL).SearchPlayerLogs(context.Background(), testPlayer(), "", 0)
	require.NoError(t, err)
	assert.Equal(t, 3, calls)
}

func TestQueryExhaustsRetries(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"success":false,"error":"overloaded"}`))
	}))
	defer srv.Close()

	_, err := testClient(srv.URL).SearchPlayerLogs(context.Background(), testPlayer(), "", 0)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrRejected)
}

func TestQueryDecodeError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<html>not json</html>`))
	}))
	defer srv.Close()

	_, err := testClient(srv.URL).DownloadLog(context.Background(), 105)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrDecode)
}

func TestQueryTransportError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	_, err := testClient(srv.URL).DownloadLog(context.Background(), 105)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrTransport)
}
