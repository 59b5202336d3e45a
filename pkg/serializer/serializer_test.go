package serializer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type Widget struct {
	ID    int    `json:"id"`
	Label string `json:"label"`
	Part  *WidgetPart
}

type WidgetPart struct {
	Code string `json:"code"`
}

func TestPackageLevelAPI(t *testing.T) {
	widget := MustDefine("Catalog::WidgetSerializer", func(b *Builder) {
		b.Attributes("id", "label")
		b.HasOne("part")
	})
	MustExtend(widget, "Catalog::CompactWidgetSerializer", func(b *Builder) {
		b.Attribute("label", Unless(func(s *Instance) bool { return true }))
	})
	_, err := Define("Catalog::WidgetPartSerializer", func(b *Builder) {
		b.Attribute("code")
	})
	require.NoError(t, err)
	_, err = Define("Catalog::WidgetSerializer", nil)
	assert.Error(t, err)

	got, ok := DefaultRegistry().Get("Catalog::WidgetSerializer")
	assert.True(t, ok)
	assert.Same(t, widget, got)
	assert.Same(t, DefaultRegistry(), Default().Registry())

	caller := Name("Catalog::WidgetsController")
	w := &Widget{ID: 1, Label: "gear", Part: &WidgetPart{Code: "G-1"}}

	def, ok, err := Lookup(caller, w)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Same(t, widget, def)

	def, err = LookupStrict(caller, w, WithVariant("compact_widget"))
	require.NoError(t, err)
	assert.Equal(t, "Catalog::CompactWidgetSerializer", def.Name())

	out, err := Serialize(caller, w)
	require.NoError(t, err)
	assert.Equal(t, `{"id":1,"label":"gear","part":{"code":"G-1"}}`, mustJSON(t, out))

	data, err := widget.New(w).ToJSON()
	require.NoError(t, err)
	assert.Equal(t, `{"id":1,"label":"gear","part":{"code":"G-1"}}`, string(data))

	all, err := SerializeAll(caller, []*Widget{w}, WithVariant("compact_widget"), WithMaxDepth(0))
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, []string{"id"}, all[0].(*Map).Keys())

	_, err = Extend(nil, "Catalog::OrphanSerializer", nil)
	assert.Error(t, err)
}
