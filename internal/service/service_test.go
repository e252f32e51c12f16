package service

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"netplan-parser/internal/domain"
	"netplan-parser/internal/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const scenarioYAML = `network:
  version: 2
  renderer: networkd
  ethernets:
    eno1:
      dhcp4: false
  bridges:
    br0:
      interfaces: [eno1, eno2]
  vlans:
    eno2.617:
      id: 617
      link: eno2
`

func writeNetplan(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func scenarioNetPlan(t *testing.T) *NetPlan {
	t.Helper()
	dir := t.TempDir()
	writeNetplan(t, dir, "01-netcfg.yaml", scenarioYAML)

	np, err := NewParser(Source{Dirs: []string{dir}}).Parse(context.Background())
	require.NoError(t, err)
	return np
}

func TestNetPlanQueries(t *testing.T) {
	np := scenarioNetPlan(t)

	t.Run("interfaces returns exactly the declared names asked for", func(t *testing.T) {
		result := np.Interfaces([]string{"br0", "eno2"})
		assert.Equal(t, []string{"br0"}, result.Names())
		assert.Empty(t, result.PhysicalKinds)
	})

	t.Run("related keeps only records that exist", func(t *testing.T) {
		result := np.Related([]string{"eno2.617"})
		assert.Equal(t, []string{"eno2.617"}, result.Names())
	})

	t.Run("related from a member reaches the bridge", func(t *testing.T) {
		result := np.Related([]string{"eno1"})
		assert.Equal(t, []string{"br0", "eno1"}, result.Names())
	})

	t.Run("physical filters the closure", func(t *testing.T) {
		result := np.Physical([]string{"br0"})
		assert.Equal(t, []string{"eno1"}, result.Names())
		assert.Equal(t, domain.PhysicalSections(), result.PhysicalKinds)
	})

	t.Run("empty names give empty results", func(t *testing.T) {
		assert.Zero(t, np.Interfaces(nil).Len())
		assert.Zero(t, np.Related(nil).Len())
		assert.Zero(t, np.Physical(nil).Len())
	})

	t.Run("all lists every interface", func(t *testing.T) {
		assert.Equal(t, []string{"br0", "eno1", "eno2.617"}, np.All().Names())
	})
}

func TestNetPlanQuery(t *testing.T) {
	np := scenarioNetPlan(t)

	t.Run("show without names is everything", func(t *testing.T) {
		result, err := np.Query(QueryShow, nil, true)
		require.NoError(t, err)
		assert.Equal(t, 3, result.Len())
	})

	t.Run("related without names is invalid", func(t *testing.T) {
		_, err := np.Query(QueryRelated, nil, false)
		require.Error(t, err)
		assert.True(t, errs.IsKind(err, errs.KindInvalid))
	})

	t.Run("strict lists every missing name", func(t *testing.T) {
		_, err := np.Query(QueryPhysical, []string{"zz0", "br0", "eno2", "zz0"}, true)
		require.Error(t, err)
		assert.True(t, errs.IsKind(err, errs.KindNotFound))
		assert.Equal(t, "interface(s) not found: eno2, zz0", err.Error())
	})

	t.Run("lenient ignores missing names", func(t *testing.T) {
		result, err := np.Query(QueryPhysical, []string{"zz0", "br0"}, false)
		require.NoError(t, err)
		assert.Equal(t, []string{"eno1"}, result.Names())
	})

	t.Run("show in strict mode", func(t *testing.T) {
		result, err := np.Query(QueryShow, []string{"eno1"}, true)
		require.NoError(t, err)
		require.Equal(t, 1, result.Len())
		assert.Equal(t, domain.SectionEthernets, result.Interfaces[0].Section)
		assert.Equal(t, "01-netcfg.yaml", result.Interfaces[0].SourceFile)
	})
}

func TestParseQueryKind(t *testing.T) {
	for _, s := range []string{"show", "related", "physical"} {
		k, err := ParseQueryKind(s)
		require.NoError(t, err)
		assert.Equal(t, QueryKind(s), k)
	}

	_, err := ParseQueryKind("everything")
	assert.True(t, errs.IsKind(err, errs.KindInvalid))
}

func TestParserLastFileWins(t *testing.T) {
	dir := t.TempDir()
	writeNetplan(t, dir, "b.yaml", "network:\n  version: 2\n  ethernets:\n    eth0: {mtu: 9000}\n")
	writeNetplan(t, dir, "a.yaml", "network:\n  version: 2\n  ethernets:\n    eth0: {mtu: 1500}\n")

	np, err := NewParser(Source{Dirs: []string{dir}}).Parse(context.Background())
	require.NoError(t, err)

	result := np.Interfaces([]string{"eth0"})
	require.Equal(t, 1, result.Len())
	assert.Equal(t, 9000, result.Interfaces[0].Data["mtu"])
	assert.Equal(t, "b.yaml", result.Interfaces[0].SourceFile)
}

func TestParserCycle(t *testing.T) {
	dir := t.TempDir()
	writeNetplan(t, dir, "vlans.yaml", `network:
  version: 2
  vlans:
    vlanA: {id: 1, link: vlanB}
    vlanB: {id: 2, link: vlanA}
`)

	np, err := NewParser(Source{Dirs: []string{dir}}).Parse(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"vlanA", "vlanB"}, np.Related([]string{"vlanA"}).Names())
}

func TestParserExplicitFiles(t *testing.T) {
	dir := t.TempDir()
	a := writeNetplan(t, dir, "a.yaml", scenarioYAML)
	writeNetplan(t, dir, "b.yaml", "network:\n  ethernets:\n    eth9: {}\n")

	p := NewParser(Source{Files: []string{a}})
	np, err := p.Parse(context.Background())
	require.NoError(t, err)
	assert.False(t, np.Registry().Has("eth9"))
	assert.Equal(t, []string{dir}, p.WatchDirs())

	_, err = NewParser(Source{Files: []string{filepath.Join(dir, "missing.yaml")}}).Parse(context.Background())
	assert.True(t, errs.IsKind(err, errs.KindNotFound))
}

func TestParserErrors(t *testing.T) {
	t.Run("malformed document", func(t *testing.T) {
		dir := t.TempDir()
		writeNetplan(t, dir, "a.yaml", "ethernets:\n  eth0: {}\n")
		_, err := NewParser(Source{Dirs: []string{dir}}).Parse(context.Background())
		assert.True(t, errs.IsKind(err, errs.KindMalformedDocument), "got %v", err)
	})

	t.Run("canceled context", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		_, err := NewParser(Source{Dirs: []string{t.TempDir()}}).Parse(ctx)
		assert.ErrorIs(t, err, context.Canceled)
	})
}

func TestReloader(t *testing.T) {
	dir := t.TempDir()
	writeNetplan(t, dir, "01-netcfg.yaml", scenarioYAML)

	bus := NewEventBus()
	events := make(chan Event, 4)
	bus.Subscribe(events)

	r := NewReloader(NewParser(Source{Dirs: []string{dir}}), bus)
	assert.Nil(t, r.Current())

	require.NoError(t, r.Reload(context.Background()))
	first := r.Current()
	require.NotNil(t, first)
	assert.Equal(t, 3, first.Registry().Len())
	ev := <-events
	assert.Equal(t, EventNetplanReloaded, ev.Type)
	assert.Equal(t, map[string]int{"interfaces": 3}, ev.Payload)

	// a broken document keeps the previous configuration
	writeNetplan(t, dir, "02-broken.yaml", "network: [oops\n")
	err := r.Reload(context.Background())
	require.Error(t, err)
	assert.True(t, errs.IsKind(err, errs.KindParse))
	assert.Same(t, first, r.Current())
	ev = <-events
	assert.Equal(t, EventNetplanReloadFailed, ev.Type)

	writeNetplan(t, dir, "02-broken.yaml", "network:\n  ethernets:\n    eth9: {}\n")
	require.NoError(t, r.Reload(context.Background()))
	assert.True(t, r.Current().Registry().Has("eth9"))
	assert.Equal(t, EventNetplanReloaded, (<-events).Type)
}

func TestEventBusSkipsSlowSubscribers(t *testing.T) {
	bus := NewEventBus()
	full := make(chan Event)
	ok := make(chan Event, 1)
	bus.Subscribe(full)
	bus.Subscribe(ok)

	bus.Publish(Event{Type: EventNetplanReloaded})
	assert.Equal(t, EventNetplanReloaded, (<-ok).Type)
}
