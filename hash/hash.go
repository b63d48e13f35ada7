// Package hash computes the deterministic template hash used to tell rollout
// generations apart.
package hash

import (
	"fmt"
	"hash/fnv"

	"github.com/davecgh/go-spew/spew"

	"github.com/lunstb/learn-k8s-sub003/models"
)

// printer dumps the template with map keys sorted and pointers followed, so
// the digest is stable across re-serialization and independent of label
// insertion order.
var printer = spew.ConfigState{
	Indent:         " ",
	SortKeys:       true,
	DisableMethods: true,
	SpewKeys:       true,
}

// PodTemplate returns a short deterministic digest of the template contents.
func PodTemplate(tpl models.PodTemplate) string {
	h := fnv.New32a()
	printer.Fprintf(h, "%#v", tpl)
	return fmt.Sprintf("%08x", h.Sum32())
}
