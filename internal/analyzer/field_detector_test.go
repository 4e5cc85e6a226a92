package analyzer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ludo-technologies/clumpscan/domain"
)

func detectFields(t *testing.T, opts domain.DetectorOptions, entities ...*domain.ClassOrInterface) map[string]*domain.DataClump {
	t.Helper()
	idx := BuildEntityIndex(entities)
	return NewFieldDetector(idx, NewHierarchy(idx), opts, nil, nil).Detect()
}

func onlyClump(t *testing.T, clumps map[string]*domain.DataClump) *domain.DataClump {
	t.Helper()
	require.Len(t, clumps, 1)
	for _, c := range clumps {
		return c
	}
	return nil
}

func TestFieldDetectorFindsSharedFields(t *testing.T) {
	clumps := detectFields(t, domain.DefaultDetectorOptions(),
		newClass("Customer", personFields()...),
		newClass("Employee", personFields()...),
	)

	clump := onlyClump(t, clumps)
	assert.Equal(t, domain.DataClumpTypeFields, clump.DataClumpType)
	assert.Equal(t, domain.DataClumpKind, clump.Type)
	assert.Equal(t, "Customer", clump.FromClassOrInterfaceKey)
	assert.Equal(t, "Employee", clump.ToClassOrInterfaceKey)
	assert.Equal(t, "Customer.java", clump.FromFilePath)
	assert.Nil(t, clump.FromMethodName)
	assert.Len(t, clump.DataClumpData, 3)
	assert.Equal(t, "fields_to_fields_data_clump-Customer.java-Customer-Employee-ageemailname", clump.Key)
}

func TestFieldDetectorThreshold(t *testing.T) {
	twoShared := []member{m("name", "String"), m("age", "int")}

	clumps := detectFields(t, domain.DefaultDetectorOptions(),
		newClass("A", twoShared...),
		newClass("B", twoShared...),
	)
	assert.Empty(t, clumps, "minimum-1 shared fields never form a clump")

	opts := domain.DefaultDetectorOptions()
	opts.SharedFieldParametersMinimum = 2
	clumps = detectFields(t, opts,
		newClass("A", twoShared...),
		newClass("B", twoShared...),
	)
	assert.Len(t, clumps, 1)
}

func TestFieldDetectorIgnoresInterfacesAndStatics(t *testing.T) {
	clumps := detectFields(t, domain.DefaultDetectorOptions(),
		newClass("A", personFields()...),
		newEntity("I", domain.KindInterface, personFields()...),
	)
	assert.Empty(t, clumps)

	clumps = detectFields(t, domain.DefaultDetectorOptions(),
		newClass("A", m("name", "String"), m("age", "int"), m("email", "String", "static")),
		newClass("B", personFields()...),
	)
	assert.Empty(t, clumps)
}

func TestFieldDetectorOnePerUnorderedPair(t *testing.T) {
	clumps := detectFields(t, domain.DefaultDetectorOptions(),
		newClass("C", personFields()...),
		newClass("A", personFields()...),
		newClass("B", personFields()...),
	)

	require.Len(t, clumps, 3)
	for _, c := range clumps {
		assert.Less(t, c.FromClassOrInterfaceKey, c.ToClassOrInterfaceKey)
	}
}

func TestFieldDetectorInheritance(t *testing.T) {
	base := func() *domain.ClassOrInterface {
		return newClass("Base", m("name", "String"), m("age", "int"))
	}
	child := func() *domain.ClassOrInterface {
		c := newClass("Child", m("email", "String"))
		c.Extends = []string{"Base"}
		return c
	}
	other := func() *domain.ClassOrInterface {
		return newClass("Other", personFields()...)
	}

	clumps := detectFields(t, domain.DefaultDetectorOptions(), base(), child(), other())
	assert.Empty(t, clumps, "own fields only")

	opts := domain.DefaultDetectorOptions()
	opts.SubclassInheritsAllMembersFromSuperclass = true
	clumps = detectFields(t, opts, base(), child(), other())

	clump := onlyClump(t, clumps)
	assert.Equal(t, "Child", clump.FromClassOrInterfaceKey)
	assert.Equal(t, "Other", clump.ToClassOrInterfaceKey)
	assert.Len(t, clump.DataClumpData, 3)
}

func TestFieldDetectorAncestorPairComparesOwnDeclarations(t *testing.T) {
	opts := domain.DefaultDetectorOptions()
	opts.SubclassInheritsAllMembersFromSuperclass = true

	base := newClass("Base", personFields()...)
	child := newClass("Child", personFields()...)
	child.Extends = []string{"Base"}
	clumps := detectFields(t, opts, base, child)
	assert.Len(t, clumps, 1, "redeclared fields still count")

	base = newClass("Base", personFields()...)
	child = newClass("Child", m("extra", "int"))
	child.Extends = []string{"Base"}
	clumps = detectFields(t, opts, base, child)
	assert.Empty(t, clumps, "inherited copies do not match themselves")
}

func TestFieldDetectorSkipsAncestorPairWithUnknownChain(t *testing.T) {
	opts := domain.DefaultDetectorOptions()
	opts.SubclassInheritsAllMembersFromSuperclass = true

	base := newClass("Base", personFields()...)
	child := newClass("Child", personFields()...)
	child.Extends = []string{"Base"}
	child.Implements = []string{"external.Unknown"}

	clumps := detectFields(t, opts, base, child)
	assert.Empty(t, clumps)
}

func TestFieldDetectorReportsProgress(t *testing.T) {
	idx := BuildEntityIndex([]*domain.ClassOrInterface{newClass("A"), newClass("B"), newClass("C")})

	var calls [][2]int
	progress := func(stage string, processed, total int) {
		assert.Equal(t, ProgressStageFields, stage)
		calls = append(calls, [2]int{processed, total})
	}
	NewFieldDetector(idx, NewHierarchy(idx), domain.DefaultDetectorOptions(), progress, nil).Detect()

	assert.Equal(t, [][2]int{{1, 3}, {2, 3}, {3, 3}}, calls)
}
