package registry

import (
	"testing"

	"github.com/stretchr/testify/require"

	appErr "github.com/coursekit/coursekit/internal/pkg/errors"
)

func TestRegistryBuiltins(t *testing.T) {
	reg := New()
	for _, widgetType := range []string{"text", "heading", "button", "image", "video", "course_card", "course_filter", "course_register"} {
		require.True(t, reg.Has(widgetType), "missing builtin %s", widgetType)
	}
	require.False(t, reg.Has("carousel"))

	fields, err := reg.Fields("heading")
	require.NoError(t, err)
	require.NotEmpty(t, fields)
	require.Equal(t, "title", fields[0].Name)
}

func TestRegistryFieldsUnknownType(t *testing.T) {
	reg := New()
	_, err := reg.Fields("nope")
	require.ErrorIs(t, err, appErr.ErrUnknownWidgetType)
	_, err = reg.Defaults("nope")
	require.ErrorIs(t, err, appErr.ErrUnknownWidgetType)
	_, err = reg.CoerceSettings("nope", map[string]interface{}{})
	require.ErrorIs(t, err, appErr.ErrUnknownWidgetType)
}

func TestRegistryRegistrationOrder(t *testing.T) {
	reg := NewEmpty()
	reg.Register("b", nil)
	reg.Register("a", nil)
	reg.Register("b", []FieldDescriptor{{Name: "x", Kind: KindText}})
	require.Equal(t, []string{"b", "a"}, reg.Types())

	fields, err := reg.Fields("b")
	require.NoError(t, err)
	require.Len(t, fields, 1)
}

func TestDefaultsNotBakedIntoCoercion(t *testing.T) {
	reg := New()
	// Declared fields absent from the input must stay absent; defaults are a
	// render-time concern.
	settings, err := reg.CoerceSettings("heading", map[string]interface{}{"title": "Hello"})
	require.NoError(t, err)
	require.Equal(t, map[string]interface{}{"title": "Hello"}, settings)

	defaults, err := reg.Defaults("heading")
	require.NoError(t, err)
	require.Equal(t, "h2", defaults["tag"])
}

func TestCoerceSettingsDropsUndeclaredKeys(t *testing.T) {
	reg := New()
	settings, err := reg.CoerceSettings("button", map[string]interface{}{
		"label":   "Enroll",
		"onclick": "alert(1)",
	})
	require.NoError(t, err)
	require.Equal(t, "Enroll", settings["label"])
	_, has := settings["onclick"]
	require.False(t, has)
}

func TestCoerceCheckbox(t *testing.T) {
	reg := New()
	for input, want := range map[interface{}]bool{
		true:    true,
		"true":  true,
		"on":    true,
		"1":     true,
		"yes":   true,
		"false": false,
		"0":     false,
		"":      false,
		0.0:     false,
		1.0:     true,
	} {
		settings, err := reg.CoerceSettings("button", map[string]interface{}{"new_tab": input})
		require.NoError(t, err)
		require.Equal(t, want, settings["new_tab"], "input %v", input)
	}
}

func TestCoerceNumberClampsToDeclaredRange(t *testing.T) {
	reg := New()

	settings, err := reg.CoerceSettings("image", map[string]interface{}{"width": float64(500)})
	require.NoError(t, err)
	require.Equal(t, float64(100), settings["width"])

	settings, err = reg.CoerceSettings("image", map[string]interface{}{"width": "0"})
	require.NoError(t, err)
	require.Equal(t, float64(1), settings["width"])

	settings, err = reg.CoerceSettings("image", map[string]interface{}{"width": " 42 "})
	require.NoError(t, err)
	require.Equal(t, float64(42), settings["width"])

	// Unparseable numbers are dropped rather than stored as garbage.
	settings, err = reg.CoerceSettings("image", map[string]interface{}{"width": "wide"})
	require.NoError(t, err)
	_, has := settings["width"]
	require.False(t, has)
}

func TestCoerceStringifiesScalars(t *testing.T) {
	reg := New()
	settings, err := reg.CoerceSettings("heading", map[string]interface{}{"title": float64(7)})
	require.NoError(t, err)
	require.Equal(t, "7", settings["title"])
}
