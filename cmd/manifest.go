package cmd

import (
	"bytes"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/lunstb/learn-k8s-sub003/engine"
	"github.com/lunstb/learn-k8s-sub003/models"
)

// applyFile feeds every document of a multi-document YAML manifest into the
// engine. Each document names its kind; validation happens inside the engine,
// so a bad document is rejected before it touches the cluster.
func applyFile(eng *engine.Engine, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading %s: %w", path, err)
	}

	dec := yaml.NewDecoder(bytes.NewReader(data))
	for i := 0; ; i++ {
		var doc yaml.Node
		if err := dec.Decode(&doc); err != nil {
			if err == io.EOF {
				return nil
			}
			return fmt.Errorf("%s: document %d: %w", path, i, err)
		}
		if err := applyDocument(eng, &doc); err != nil {
			return fmt.Errorf("%s: document %d: %w", path, i, err)
		}
	}
}

func applyDocument(eng *engine.Engine, doc *yaml.Node) error {
	var head struct {
		Kind models.Kind `yaml:"kind"`
	}
	if err := doc.Decode(&head); err != nil {
		return err
	}

	switch head.Kind {
	case models.KindNode:
		var o models.Node
		if err := doc.Decode(&o); err != nil {
			return err
		}
		return eng.ApplyNode(&o)
	case models.KindPod:
		var o models.Pod
		if err := doc.Decode(&o); err != nil {
			return err
		}
		return eng.ApplyPod(&o)
	case models.KindReplicaSet:
		var o models.ReplicaSet
		if err := doc.Decode(&o); err != nil {
			return err
		}
		return eng.ApplyReplicaSet(&o)
	case models.KindDeployment:
		var o models.Deployment
		if err := doc.Decode(&o); err != nil {
			return err
		}
		return eng.ApplyDeployment(&o)
	case models.KindStatefulSet:
		var o models.StatefulSet
		if err := doc.Decode(&o); err != nil {
			return err
		}
		return eng.ApplyStatefulSet(&o)
	case models.KindDaemonSet:
		var o models.DaemonSet
		if err := doc.Decode(&o); err != nil {
			return err
		}
		return eng.ApplyDaemonSet(&o)
	case models.KindJob:
		var o models.Job
		if err := doc.Decode(&o); err != nil {
			return err
		}
		return eng.ApplyJob(&o)
	case models.KindCronJob:
		var o models.CronJob
		if err := doc.Decode(&o); err != nil {
			return err
		}
		return eng.ApplyCronJob(&o)
	case models.KindHPA:
		var o models.HorizontalPodAutoscaler
		if err := doc.Decode(&o); err != nil {
			return err
		}
		return eng.ApplyHPA(&o)
	case models.KindPDB:
		var o models.PodDisruptionBudget
		if err := doc.Decode(&o); err != nil {
			return err
		}
		return eng.ApplyPDB(&o)
	case models.KindService:
		var o models.Service
		if err := doc.Decode(&o); err != nil {
			return err
		}
		return eng.ApplyService(&o)
	default:
		return fmt.Errorf("unsupported resource kind: %q", head.Kind)
	}
}
