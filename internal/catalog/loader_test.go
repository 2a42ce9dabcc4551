package catalog

import (
	"bytes"
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"testing"

	domainerrors "github.com/prereqs/prereqs-server/internal/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const cseJSON = `{
  "department": "Computer Science",
  "slug": "cse",
  "url": "https://example.edu/cse",
  "generated_at": "2024-05-01T00:00:00Z",
  "courses": [
    {"id": "CSE101", "name": "Intro", "description": "Basics", "prereqGroups": []},
    {"id": "CSE102", "name": "Data Structures", "rawRequirements": "CSE 101", "prereqGroups": [["CSE101"]]}
  ]
}`

const mathYAML = `department: Mathematics
courses:
  - id: MATH101
    name: Calculus I
    credits: "4"
  - id: MATH102
    name: Calculus II
    prereqGroups:
      - [MATH101]
`

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func newTestLoader(buf *bytes.Buffer) *Loader {
	return NewLoader(slog.New(slog.NewTextHandler(buf, nil)))
}

func TestLoad_JSONAndYAML(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "cse.json", cseJSON)
	writeFile(t, dir, "math.yaml", mathYAML)
	writeFile(t, dir, "README.md", "not a catalog")
	writeFile(t, dir, ".hidden.json", "{broken")
	require.NoError(t, os.Mkdir(filepath.Join(dir, "nested.json"), 0o755))

	var logs bytes.Buffer
	set, err := newTestLoader(&logs).Load(context.Background(), dir)
	require.NoError(t, err)

	assert.Equal(t, []string{"cse", "math"}, set.Slugs())
	assert.Equal(t, 4, set.CourseCount())

	cse, ok := set.Get("cse")
	require.True(t, ok)
	assert.Equal(t, "Computer Science", cse.Department)
	assert.Equal(t, "2024-05-01T00:00:00Z", cse.GeneratedAt)
	assert.Equal(t, "CSE 101", cse.Courses[1].RawRequirements)

	// Slug falls back to the file stem.
	math, ok := set.Get("math")
	require.True(t, ok)
	assert.Equal(t, "Mathematics", math.Department)
	assert.Equal(t, "4", math.Courses[0].Credits)
	assert.NotNil(t, math.Courses[0].PrereqGroups)
	assert.Empty(t, math.Courses[0].PrereqGroups)
	assert.Equal(t, [][]string{{"MATH101"}}, math.Courses[1].PrereqGroups)

	assert.Contains(t, logs.String(), "course catalogs loaded")
}

func TestLoad_MultipleDirsLaterWins(t *testing.T) {
	first := t.TempDir()
	second := t.TempDir()
	writeFile(t, first, "cse.json", cseJSON)
	writeFile(t, second, "cse-2025.json", `{"department": "CS (2025)", "slug": "cse", "courses": []}`)

	var logs bytes.Buffer
	set, err := newTestLoader(&logs).Load(context.Background(), first, second)
	require.NoError(t, err)

	cse, ok := set.Get("cse")
	require.True(t, ok)
	assert.Equal(t, "CS (2025)", cse.Department)
	assert.Contains(t, logs.String(), "duplicate catalog slug")
}

func TestLoad_ManyFilesKeepOrder(t *testing.T) {
	dir := t.TempDir()
	for i := range 40 {
		// Every file claims the same slug; the last name in sort order must win.
		writeFile(t, dir, "c"+strconv.Itoa(100+i)+".json",
			`{"department": "D`+strconv.Itoa(i)+`", "slug": "same", "courses": []}`)
	}

	set, err := newTestLoader(&bytes.Buffer{}).Load(context.Background(), dir)
	require.NoError(t, err)

	c, ok := set.Get("same")
	require.True(t, ok)
	assert.Equal(t, "D39", c.Department)
}

func TestLoad_Errors(t *testing.T) {
	t.Run("missing directory", func(t *testing.T) {
		_, err := newTestLoader(&bytes.Buffer{}).Load(context.Background(), filepath.Join(t.TempDir(), "nope"))
		require.Error(t, err)
		assert.ErrorIs(t, err, domainerrors.ErrInternal)
	})

	t.Run("no catalogs", func(t *testing.T) {
		dir := t.TempDir()
		writeFile(t, dir, "notes.txt", "hello")

		_, err := newTestLoader(&bytes.Buffer{}).Load(context.Background(), dir)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "no course catalogs")
	})

	t.Run("malformed json names the file", func(t *testing.T) {
		dir := t.TempDir()
		writeFile(t, dir, "cse.json", cseJSON)
		bad := writeFile(t, dir, "broken.json", `{"department": "X", "courses": [`)

		_, err := newTestLoader(&bytes.Buffer{}).Load(context.Background(), dir)
		require.Error(t, err)
		assert.ErrorIs(t, err, domainerrors.ErrValidation)
		assert.Contains(t, err.Error(), bad)
	})

	t.Run("course without id", func(t *testing.T) {
		dir := t.TempDir()
		writeFile(t, dir, "x.json", `{"department": "X", "courses": [{"name": "anonymous"}]}`)

		_, err := newTestLoader(&bytes.Buffer{}).Load(context.Background(), dir)
		require.Error(t, err)
		assert.ErrorIs(t, err, domainerrors.ErrValidation)
		assert.Contains(t, err.Error(), "courses[0].id")
	})

	t.Run("missing department", func(t *testing.T) {
		dir := t.TempDir()
		writeFile(t, dir, "x.yml", "slug: x\ncourses: []\n")

		_, err := newTestLoader(&bytes.Buffer{}).Load(context.Background(), dir)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "department")
	})

	t.Run("canceled context", func(t *testing.T) {
		dir := t.TempDir()
		writeFile(t, dir, "cse.json", cseJSON)
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		_, err := newTestLoader(&bytes.Buffer{}).Load(ctx, dir)
		assert.ErrorIs(t, err, context.Canceled)
	})
}

func TestDecode_NullsBecomeEmpty(t *testing.T) {
	c, err := Decode([]byte(`{"department": "X", "slug": "x", "courses": [{"id": "A", "prereqGroups": null}]}`), ".json")
	require.NoError(t, err)
	assert.NotNil(t, c.Courses[0].PrereqGroups)

	c, err = Decode([]byte(`{"department": "X", "slug": "x"}`), ".json")
	require.NoError(t, err)
	assert.NotNil(t, c.Courses)
	assert.Empty(t, c.Courses)
}
