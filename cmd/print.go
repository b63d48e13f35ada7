package cmd

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/lunstb/learn-k8s-sub003/engine"
)

// printCluster renders the snapshot views: one table per populated kind, then
// the event log.
func printCluster(w io.Writer, eng *engine.Engine) {
	st := eng.Store()
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)

	if nodes := st.ListNodes(); len(nodes) > 0 {
		fmt.Fprintln(tw, "NODE\tREADY\tCORDONED\tPODS\tCAPACITY")
		for _, n := range nodes {
			fmt.Fprintf(tw, "%s\t%v\t%v\t%d\t%d\n",
				n.Metadata.Name, n.Status.Ready, n.Spec.Unschedulable,
				n.Status.AllocatedPods, n.Spec.Capacity)
		}
		fmt.Fprintln(tw)
	}

	if pods := st.ListPods(); len(pods) > 0 {
		fmt.Fprintln(tw, "POD\tPHASE\tREADY\tRESTARTS\tNODE")
		for _, p := range pods {
			fmt.Fprintf(tw, "%s\t%s\t%v\t%d\t%s\n",
				p.Metadata.Name, p.Status.Phase, p.Status.Ready,
				p.Status.RestartCount, p.Spec.NodeName)
		}
		fmt.Fprintln(tw)
	}

	if rss := st.ListReplicaSets(); len(rss) > 0 {
		fmt.Fprintln(tw, "REPLICASET\tDESIRED\tCURRENT\tREADY")
		for _, rs := range rss {
			fmt.Fprintf(tw, "%s\t%d\t%d\t%d\n",
				rs.Metadata.Name, rs.Spec.Replicas, rs.Status.Replicas, rs.Status.ReadyReplicas)
		}
		fmt.Fprintln(tw)
	}

	if ds := st.ListDeployments(); len(ds) > 0 {
		fmt.Fprintln(tw, "DEPLOYMENT\tDESIRED\tUPDATED\tREADY")
		for _, d := range ds {
			fmt.Fprintf(tw, "%s\t%d\t%d\t%d\n",
				d.Metadata.Name, d.Spec.Replicas, d.Status.UpdatedReplicas, d.Status.ReadyReplicas)
		}
		fmt.Fprintln(tw)
	}

	if sss := st.ListStatefulSets(); len(sss) > 0 {
		fmt.Fprintln(tw, "STATEFULSET\tDESIRED\tCURRENT\tREADY")
		for _, ss := range sss {
			fmt.Fprintf(tw, "%s\t%d\t%d\t%d\n",
				ss.Metadata.Name, ss.Spec.Replicas, ss.Status.Replicas, ss.Status.ReadyReplicas)
		}
		fmt.Fprintln(tw)
	}

	if dss := st.ListDaemonSets(); len(dss) > 0 {
		fmt.Fprintln(tw, "DAEMONSET\tDESIRED\tCURRENT\tREADY")
		for _, d := range dss {
			fmt.Fprintf(tw, "%s\t%d\t%d\t%d\n",
				d.Metadata.Name, d.Status.DesiredNumberScheduled,
				d.Status.CurrentNumberScheduled, d.Status.NumberReady)
		}
		fmt.Fprintln(tw)
	}

	if jobs := st.ListJobs(); len(jobs) > 0 {
		fmt.Fprintln(tw, "JOB\tPHASE\tACTIVE\tSUCCEEDED\tFAILED")
		for _, j := range jobs {
			fmt.Fprintf(tw, "%s\t%s\t%d\t%d\t%d\n",
				j.Metadata.Name, j.Status.Phase, j.Status.Active,
				j.Status.Succeeded, j.Status.Failed)
		}
		fmt.Fprintln(tw)
	}

	if svcs := st.ListServices(); len(svcs) > 0 {
		fmt.Fprintln(tw, "SERVICE\tPORT\tENDPOINTS")
		for _, svc := range svcs {
			fmt.Fprintf(tw, "%s\t%d\t%s\n",
				svc.Metadata.Name, svc.Spec.Port, strings.Join(svc.Status.Endpoints, ","))
		}
		fmt.Fprintln(tw)
	}

	fmt.Fprintln(tw, "TICK\tSEVERITY\tKIND\tNAME\tREASON\tMESSAGE")
	for _, ev := range eng.Events() {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\t%s\n",
			ev.Tick, ev.Severity, ev.Kind, ev.Name, ev.Reason, ev.Message)
	}
	tw.Flush()
}
