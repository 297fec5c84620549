package collector

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/company/ember-less/internal/config"
)

// scriptedDriver answers by message order and records what was asked.
type scriptedDriver struct {
	inputs   []string
	selects  []string
	confirms []bool
	asked    []string
}

func (d *scriptedDriver) Input(_ context.Context, message, def string) (string, error) {
	d.asked = append(d.asked, message)
	if len(d.inputs) == 0 {
		return def, nil
	}
	v := d.inputs[0]
	d.inputs = d.inputs[1:]
	return v, nil
}

func (d *scriptedDriver) Select(_ context.Context, message string, _ []string, def string) (string, error) {
	d.asked = append(d.asked, message)
	if len(d.selects) == 0 {
		return def, nil
	}
	v := d.selects[0]
	d.selects = d.selects[1:]
	return v, nil
}

func (d *scriptedDriver) Confirm(_ context.Context, message string, def bool) (bool, error) {
	d.asked = append(d.asked, message)
	if len(d.confirms) == 0 {
		return def, nil
	}
	v := d.confirms[0]
	d.confirms = d.confirms[1:]
	return v, nil
}

func TestCollectDefaults(t *testing.T) {
	cfg, err := Collect(context.Background(), DefaultsDriver{}, config.Defaults("/work/ember"))
	require.NoError(t, err)

	assert.Equal(t, "ember_app", cfg.Name)
	assert.Equal(t, config.EmberData, cfg.ModelLib)
	assert.True(t, cfg.Bootstrap)
	assert.True(t, cfg.BootstrapComponents)
	assert.True(t, cfg.Bootswatch)
	assert.True(t, cfg.Rsync)
	require.NotNil(t, cfg.Deploy)
	assert.Equal(t, config.DefaultDeployServer, cfg.Deploy.Server)
	assert.Equal(t, config.DefaultDeployDir, cfg.Deploy.Dir)
}

func TestCollectHidesDeployQuestionsWithoutRsync(t *testing.T) {
	d := &scriptedDriver{
		inputs:   []string{"shop"},
		selects:  []string{"Ember-Model"},
		confirms: []bool{false, true, false, false},
	}

	cfg, err := Collect(context.Background(), d, config.Defaults("/p"))
	require.NoError(t, err)

	assert.Len(t, d.asked, 6, "deploy questions must not be asked")
	assert.Equal(t, "shop", cfg.Name)
	assert.Equal(t, config.EmberModel, cfg.ModelLib, "display name is lower-cased")
	assert.False(t, cfg.Bootstrap)
	assert.True(t, cfg.BootstrapComponents)
	assert.False(t, cfg.Rsync)
	assert.Nil(t, cfg.Deploy)
}

func TestCollectAsksDeployQuestionsWithRsync(t *testing.T) {
	d := &scriptedDriver{
		inputs:   []string{"shop", "example.org", "deployer", "/srv/shop"},
		confirms: []bool{true, true, true, true},
	}

	cfg, err := Collect(context.Background(), d, config.Defaults("/p"))
	require.NoError(t, err)

	assert.Len(t, d.asked, 9)
	require.NotNil(t, cfg.Deploy)
	assert.Equal(t, config.Deploy{Server: "example.org", User: "deployer", Dir: "/srv/shop"}, *cfg.Deploy)
}

func TestCollectRejectsInvalidAnswers(t *testing.T) {
	tests := []struct {
		name   string
		driver *scriptedDriver
	}{
		{name: "unknown model lib", driver: &scriptedDriver{selects: []string{"Backbone"}}},
		{name: "blank name", driver: &scriptedDriver{inputs: []string{"  "}}},
		{name: "blank deploy user", driver: &scriptedDriver{inputs: []string{"shop", "host", ""}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Collect(context.Background(), tt.driver, config.Defaults("/p"))
			assert.ErrorIs(t, err, config.ErrInvalidInput)
		})
	}
}

type failingDriver struct{ DefaultsDriver }

func (failingDriver) Confirm(context.Context, string, bool) (bool, error) {
	return false, errors.New("user aborted")
}

func TestCollectPropagatesDriverErrors(t *testing.T) {
	_, err := Collect(context.Background(), failingDriver{}, config.Defaults("/p"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "asking bootstrap")
	assert.NotErrorIs(t, err, config.ErrInvalidInput)
}

func TestQuestionsUseSavedDefaults(t *testing.T) {
	saved := config.Defaults("/p")
	saved.ModelLib = config.EmberModel
	saved.Deploy.User = "kept"

	qs := Questions(saved)
	byName := map[string]Question{}
	for _, q := range qs {
		byName[q.Name] = q
	}

	assert.Equal(t, "Ember-Model", byName[ModelLib].Default)
	assert.Equal(t, "kept", byName[DeployUser].Default)
	assert.NotNil(t, byName[DeployServer].When)
	assert.Nil(t, byName[Bootstrap].When)
}
