// Package coordination lets multiple solver worker processes share one job
// queue without double-processing a job: a lease-backed compare-and-swap
// claim per job ID (SPEC_FULL.md §5, "Job Lease").
package coordination

import (
	"context"
	"fmt"
	"time"

	clientv3 "go.etcd.io/etcd/client/v3"
)

// Coordinator claims and releases per-job leases against an etcd cluster.
type Coordinator struct {
	client  *clientv3.Client
	ttl     int64
	keyRoot string
}

// New dials the given etcd endpoints. ttlSeconds bounds how long a claim
// survives a worker crash before another worker may take the job over.
func New(endpoints []string, ttlSeconds int64) (*Coordinator, error) {
	client, err := clientv3.New(clientv3.Config{
		Endpoints:   endpoints,
		DialTimeout: 5 * time.Second,
	})
	if err != nil {
		return nil, fmt.Errorf("coordination: dial etcd: %w", err)
	}
	return &Coordinator{client: client, ttl: ttlSeconds, keyRoot: "/mcfsolver/jobs/"}, nil
}

func (c *Coordinator) Close() error { return c.client.Close() }

// Claim holds the lease ID backing a successful acquire; Release revokes
// it, which also deletes the key the lease was attached to.
type Claim struct {
	leaseID clientv3.LeaseID
	key     string
}

// Acquire attempts to claim jobID for this worker, identified by
// workerID. Returns ok=false without error when another worker already
// holds the claim.
func (c *Coordinator) Acquire(ctx context.Context, jobID, workerID string) (*Claim, bool, error) {
	lease, err := c.client.Grant(ctx, c.ttl)
	if err != nil {
		return nil, false, fmt.Errorf("coordination: grant lease: %w", err)
	}

	key := c.keyRoot + jobID
	txn := c.client.Txn(ctx).
		If(clientv3.Compare(clientv3.CreateRevision(key), "=", 0)).
		Then(clientv3.OpPut(key, workerID, clientv3.WithLease(lease.ID))).
		Else()
	resp, err := txn.Commit()
	if err != nil {
		return nil, false, fmt.Errorf("coordination: claim txn: %w", err)
	}
	if !resp.Succeeded {
		if _, revokeErr := c.client.Revoke(ctx, lease.ID); revokeErr != nil {
			return nil, false, fmt.Errorf("coordination: revoke unused lease: %w", revokeErr)
		}
		return nil, false, nil
	}
	return &Claim{leaseID: lease.ID, key: key}, true, nil
}

// KeepAlive renews the claim's lease once; callers loop this on a ticker
// for the duration of a long solve.
func (c *Coordinator) KeepAlive(ctx context.Context, claim *Claim) error {
	_, err := c.client.KeepAliveOnce(ctx, claim.leaseID)
	if err != nil {
		return fmt.Errorf("coordination: keepalive: %w", err)
	}
	return nil
}

// Release revokes the claim's lease, deleting its key so another worker
// can immediately claim the job ID again.
func (c *Coordinator) Release(ctx context.Context, claim *Claim) error {
	if _, err := c.client.Revoke(ctx, claim.leaseID); err != nil {
		return fmt.Errorf("coordination: release: %w", err)
	}
	return nil
}
