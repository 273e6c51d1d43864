// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package event

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/yiakwy/edx-platform/internal/domain/model"
)

func TestBusPublishOrder(t *testing.T) {
	bus := New()

	var calls []string
	bus.Subscribe(TypeFormSearch, func(e Event) { calls = append(calls, "first:"+e.(FormSearch).Term) })
	bus.Subscribe(TypeFormSearch, func(e Event) { calls = append(calls, "second:"+e.(FormSearch).Term) })
	bus.Subscribe(TypeFilterClear, func(e Event) { calls = append(calls, "clear") })

	bus.Publish(FormSearch{Term: "demo"})

	assert.Equal(t, []string{"first:demo", "second:demo"}, calls)
}

func TestBusUnsubscribe(t *testing.T) {
	bus := New()

	count := 0
	unsubscribe := bus.Subscribe(TypeFilterClear, func(Event) { count++ })
	other := 0
	bus.Subscribe(TypeFilterClear, func(Event) { other++ })

	bus.Publish(FilterClear{})
	unsubscribe()
	unsubscribe()
	bus.Publish(FilterClear{})

	assert.Equal(t, 1, count)
	assert.Equal(t, 2, other)
	assert.Equal(t, 1, bus.Len(TypeFilterClear))
}

func TestBusHandlerPanicIsRecovered(t *testing.T) {
	var bus Bus

	reached := false
	bus.Subscribe(TypeResultsError, func(Event) { panic("boom") })
	bus.Subscribe(TypeResultsError, func(Event) { reached = true })

	assert.NotPanics(t, func() { bus.Publish(ResultsError{}) })
	assert.True(t, reached)
}

func TestBusSubscribeDuringPublish(t *testing.T) {
	bus := New()

	late := 0
	bus.Subscribe(TypeResultsNext, func(Event) {
		bus.Subscribe(TypeResultsNext, func(Event) { late++ })
	})

	bus.Publish(ResultsNext{})
	assert.Equal(t, 0, late)

	bus.Publish(ResultsNext{})
	assert.Equal(t, 1, late)
}

func TestFilterSearchFacetFilters(t *testing.T) {
	e := FilterSearch{
		Term: "demo",
		Filters: []model.Filter{
			{Type: "search_string", Query: "demo"},
			{Type: "org", Query: "edX"},
		},
	}
	assert.Equal(t, []model.Filter{{Type: "org", Query: "edX"}}, e.FacetFilters("search_string"))
	assert.Empty(t, FilterSearch{}.FacetFilters("search_string"))
}
