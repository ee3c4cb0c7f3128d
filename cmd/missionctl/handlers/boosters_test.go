package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/imamik/missioncontrol/internal/booster"
	testutil "github.com/imamik/missioncontrol/internal/testing"
)

func TestBoosters(t *testing.T) {
	t.Run("lists the catalog as a table", func(t *testing.T) {
		f := newFixture(t, testutil.VertxRest())

		require.NoError(t, Boosters(context.Background(), "", ""))

		out := f.out.String()
		assert.Contains(t, out, "RUNTIME")
		assert.Contains(t, out, "vertx-rest")
		assert.Contains(t, out, "Vert.x HTTP")
	})

	t.Run("json", func(t *testing.T) {
		f := newFixture(t, testutil.VertxRest())

		require.NoError(t, Boosters(context.Background(), "", OutputJSON))

		var got []booster.Booster
		require.NoError(t, json.Unmarshal(f.out.Bytes(), &got))
		require.Len(t, got, 1)
		assert.Equal(t, "vertx-rest", got[0].ID)
	})

	t.Run("empty catalog", func(t *testing.T) {
		f := newFixture(t)

		require.NoError(t, Boosters(context.Background(), "", ""))
		assert.Contains(t, f.out.String(), "No boosters")
	})

	t.Run("index failure", func(t *testing.T) {
		f := newFixture(t)
		f.catalog = booster.NewCatalog(booster.LoaderFunc(func(context.Context) ([]booster.Booster, error) {
			return nil, errors.New("clone failed")
		}))

		err := Boosters(context.Background(), "", "")
		require.ErrorContains(t, err, "failed to index booster catalog")
		require.ErrorContains(t, err, "clone failed")
	})
}
