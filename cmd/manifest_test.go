package cmd

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lunstb/learn-k8s-sub003/engine"
)

const clusterManifest = `
kind: Node
metadata:
  name: n1
spec:
  capacity: 10
---
kind: Deployment
metadata:
  name: web
spec:
  replicas: 3
  selector:
    app: web
  template:
    labels:
      app: web
    spec:
      image: web:v1
  strategy:
    maxSurge: 1
    maxUnavailable: 1
---
kind: Service
metadata:
  name: web-svc
spec:
  selector:
    app: web
  port: 80
`

func writeManifest(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "cluster.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestApplyFileMultiDocument(t *testing.T) {
	eng := engine.New(nil)
	require.NoError(t, applyFile(eng, writeManifest(t, clusterManifest)))

	st := eng.Store()
	assert.Len(t, st.ListNodes(), 1)
	assert.Len(t, st.ListServices(), 1)

	d, ok := st.GetDeployment("web")
	require.True(t, ok)
	assert.Equal(t, 3, d.Spec.Replicas)
	assert.Equal(t, 1, d.Spec.Strategy.MaxSurge)

	eng.Run(3)
	endpoints, err := eng.Endpoints("web-svc")
	require.NoError(t, err)
	assert.Len(t, endpoints, 3)
}

func TestApplyFileRejectsUnknownKind(t *testing.T) {
	eng := engine.New(nil)
	err := applyFile(eng, writeManifest(t, "kind: Widget\nmetadata:\n  name: x\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported resource kind")
}

func TestApplyFileRejectsInvalidSpec(t *testing.T) {
	eng := engine.New(nil)
	err := applyFile(eng, writeManifest(t, "kind: Node\nmetadata:\n  name: n1\nspec:\n  capacity: 0\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "capacity")
}
