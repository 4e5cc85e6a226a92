package analyzer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ludo-technologies/clumpscan/domain"
)

func detectMethods(t *testing.T, opts domain.DetectorOptions, entities ...*domain.ClassOrInterface) map[string]*domain.DataClump {
	t.Helper()
	idx := BuildEntityIndex(entities)
	return NewMethodDetector(idx, NewHierarchy(idx), opts, nil, nil).Detect()
}

func addressParams() []member {
	return []member{m("street", "String"), m("city", "String"), m("zip", "int")}
}

func TestMethodDetectorFindsSharedParameters(t *testing.T) {
	a := newClass("Billing")
	addMethod(a, "charge", addressParams()...)
	b := newClass("Shipping")
	addMethod(b, "ship", addressParams()...)

	clump := onlyClump(t, detectMethods(t, domain.DefaultDetectorOptions(), a, b))

	assert.Equal(t, domain.DataClumpTypeParameters, clump.DataClumpType)
	require.NotNil(t, clump.FromMethodName)
	assert.Equal(t, "charge", *clump.FromMethodName)
	require.NotNil(t, clump.ToMethodKey)
	assert.Equal(t, "Shipping/method/ship", *clump.ToMethodKey)
	assert.Len(t, clump.DataClumpData, 3)
	assert.Equal(t,
		"parameters_to_parameters_data_clump-Billing.java-Billing-Shipping-Billing/method/charge-Shipping/method/ship-streetcityzip",
		clump.Key)
}

func TestMethodDetectorSkipsSameClass(t *testing.T) {
	a := newClass("A")
	addMethod(a, "one", addressParams()...)
	addMethod(a, "two", addressParams()...)

	assert.Empty(t, detectMethods(t, domain.DefaultDetectorOptions(), a))
}

func TestMethodDetectorIncludesInterfaces(t *testing.T) {
	a := newClass("A")
	addMethod(a, "one", addressParams()...)
	i := newEntity("I", domain.KindInterface)
	addMethod(i, "two", addressParams()...)

	assert.Len(t, detectMethods(t, domain.DefaultDetectorOptions(), a, i), 1)
}

func TestMethodDetectorTypeVariables(t *testing.T) {
	build := func() []*domain.ClassOrInterface {
		a := newClass("A")
		ma := addMethod(a, "foo", m("items", "List<T>"), m("x", "int"), m("y", "int"))
		ma.TypeParameters = []string{"T"}
		b := newClass("B")
		mb := addMethod(b, "foo", m("items", "List<T>"), m("x", "int"), m("y", "int"))
		mb.TypeParameters = []string{"T"}
		return []*domain.ClassOrInterface{a, b}
	}

	assert.Empty(t, detectMethods(t, domain.DefaultDetectorOptions(), build()...))

	opts := domain.DefaultDetectorOptions()
	opts.TypeVariablesConsidered = true
	assert.Len(t, detectMethods(t, opts, build()...), 1)
}

func TestMethodDetectorGenericArgumentsMustMatch(t *testing.T) {
	a := newClass("A")
	addMethod(a, "foo", m("items", "List<Number>"), m("x", "int"), m("y", "int"))
	b := newClass("B")
	addMethod(b, "foo", m("items", "List<String>"), m("x", "int"), m("y", "int"))

	opts := domain.DefaultDetectorOptions()
	opts.TypeVariablesConsidered = true
	opts.SharedFieldParametersCheckIfAreSubtypes = true
	assert.Empty(t, detectMethods(t, opts, a, b), "subtype relaxation is a field option")
}

func TestMethodDetectorHierarchy(t *testing.T) {
	build := func() []*domain.ClassOrInterface {
		base := newClass("Base")
		addMethod(base, "save", addressParams()...)
		child := newClass("Child")
		child.Extends = []string{"Base"}
		addMethod(child, "store", addressParams()...)
		return []*domain.ClassOrInterface{base, child}
	}

	assert.Empty(t, detectMethods(t, domain.DefaultDetectorOptions(), build()...))

	opts := domain.DefaultDetectorOptions()
	opts.SharedMethodParametersHierarchyConsidered = true
	assert.Len(t, detectMethods(t, opts, build()...), 1)
}

func TestMethodDetectorOverrides(t *testing.T) {
	build := func(annotated bool) []*domain.ClassOrInterface {
		base := newClass("Base")
		addMethod(base, "save", addressParams()...)
		child := newClass("Child")
		child.Extends = []string{"Base"}
		override := addMethod(child, "save", addressParams()...)
		override.OverrideAnnotation = annotated
		other := newClass("Other")
		addMethod(other, "save", addressParams()...)
		return []*domain.ClassOrInterface{base, child, other}
	}

	for _, annotated := range []bool{true, false} {
		clumps := detectMethods(t, domain.DefaultDetectorOptions(), build(annotated)...)
		require.Len(t, clumps, 1)
		for _, c := range clumps {
			assert.Equal(t, "Base", c.FromClassOrInterfaceKey)
			assert.Equal(t, "Other", c.ToClassOrInterfaceKey)
		}
	}

	opts := domain.DefaultDetectorOptions()
	opts.SharedMethodParametersHierarchyConsidered = true
	assert.Len(t, detectMethods(t, opts, build(true)...), 3)
}

func TestMethodDetectorUnknownHierarchy(t *testing.T) {
	build := func() []*domain.ClassOrInterface {
		a := newClass("A")
		a.Extends = []string{"external.Framework"}
		addMethod(a, "handle", addressParams()...)
		b := newClass("B")
		addMethod(b, "handle", addressParams()...)
		return []*domain.ClassOrInterface{a, b}
	}

	assert.Empty(t, detectMethods(t, domain.DefaultDetectorOptions(), build()...))

	opts := domain.DefaultDetectorOptions()
	opts.AnalyseMethodsWithUnknownHierarchy = true
	assert.Len(t, detectMethods(t, opts, build()...), 1)
}

func TestMethodDetectorThreshold(t *testing.T) {
	a := newClass("A")
	addMethod(a, "f", m("x", "int"), m("y", "int"), m("z", "int"), m("w", "int"))
	b := newClass("B")
	addMethod(b, "g", m("x", "int"), m("y", "int"), m("z", "int"), m("v", "int"))

	opts := domain.DefaultDetectorOptions()
	opts.SharedMethodParametersMinimum = 4
	assert.Empty(t, detectMethods(t, opts, a, b))

	opts.SharedMethodParametersMinimum = 3
	assert.Len(t, detectMethods(t, opts, a, b), 1)
}

func TestMethodDetectorKeylessParameters(t *testing.T) {
	a := newClass("Billing")
	charge := addMethod(a, "charge", addressParams()...)
	b := newClass("Shipping")
	ship := addMethod(b, "ship", addressParams()...)
	for _, p := range append(charge.Parameters, ship.Parameters...) {
		p.Key = ""
	}

	clump := onlyClump(t, detectMethods(t, domain.DefaultDetectorOptions(), a, b))
	assert.Len(t, clump.DataClumpData, 3)
	assert.Contains(t, clump.DataClumpData, "Billing/method/charge/parameter/0")
}

func TestParameterSignature(t *testing.T) {
	method := &domain.Method{Parameters: []*domain.Parameter{
		nil,
		{TypedMember: domain.TypedMember{Type: "List<String>"}},
		nil,
		{TypedMember: domain.TypedMember{Type: "Map<K, V>[]"}},
	}}
	assert.Equal(t, "List,Map[]", parameterSignature(method))
	assert.Equal(t, "", parameterSignature(&domain.Method{}))
}
