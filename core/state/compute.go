package state

import (
	"fmt"
	"math/big"

	"gridchain/native/compute"
)

var (
	jobPrefix           = []byte("compute/jobs/")
	jobEscrowPrefix     = []byte("compute/jobs/escrow/")
	requestPrefix       = []byte("compute/requests/")
	requestEscrowPrefix = []byte("compute/requests/escrow/")
	renterJobsPrefix    = []byte("compute/renters/")
	jobCounterKey       = []byte("compute/jobs/counter")
	requestCounterKey   = []byte("compute/requests/counter")
)

func jobKey(id uint64) []byte {
	return []byte(fmt.Sprintf("%s%020d", jobPrefix, id))
}

func jobEscrowKey(id uint64) []byte {
	return []byte(fmt.Sprintf("%s%020d", jobEscrowPrefix, id))
}

func requestKey(id uint64) []byte {
	return []byte(fmt.Sprintf("%s%020d", requestPrefix, id))
}

func requestEscrowKey(id uint64) []byte {
	return []byte(fmt.Sprintf("%s%020d", requestEscrowPrefix, id))
}

func renterJobsKey(renter [20]byte) []byte {
	return []byte(fmt.Sprintf("%s%x", renterJobsPrefix, renter))
}

// storedJob mirrors compute.Job with unsigned timestamps because RLP has no
// signed integer encoding. Unix timestamps in this module are never negative.
type storedJob struct {
	ID          uint64
	Renter      [20]byte
	Host        [20]byte
	StartTime   uint64
	MaxEndTime  uint64
	TotalEscrow *big.Int
	Claimed     *big.Int
	Active      bool
}

// JobGet loads a job record by id.
func (m *Manager) JobGet(id uint64) (*compute.Job, bool, error) {
	stored := &storedJob{}
	ok, err := m.KVGet(jobKey(id), stored)
	if err != nil || !ok {
		return nil, false, err
	}
	return &compute.Job{
		ID:          stored.ID,
		Renter:      stored.Renter,
		Host:        stored.Host,
		StartTime:   int64(stored.StartTime),
		MaxEndTime:  int64(stored.MaxEndTime),
		TotalEscrow: stored.TotalEscrow,
		Claimed:     stored.Claimed,
		Active:      stored.Active,
	}, true, nil
}

// JobPut persists a job record.
func (m *Manager) JobPut(job *compute.Job) error {
	sanitized, err := compute.SanitizeJob(job)
	if err != nil {
		return err
	}
	if sanitized.StartTime < 0 {
		return fmt.Errorf("state: job %d has negative start time", sanitized.ID)
	}
	return m.KVPut(jobKey(sanitized.ID), &storedJob{
		ID:          sanitized.ID,
		Renter:      sanitized.Renter,
		Host:        sanitized.Host,
		StartTime:   uint64(sanitized.StartTime),
		MaxEndTime:  uint64(sanitized.MaxEndTime),
		TotalEscrow: sanitized.TotalEscrow,
		Claimed:     sanitized.Claimed,
		Active:      sanitized.Active,
	})
}

// JobEscrowGet loads the escrow token backing a job.
func (m *Manager) JobEscrowGet(id uint64) (*compute.Token, bool, error) {
	token := &compute.Token{}
	ok, err := m.KVGet(jobEscrowKey(id), token)
	if err != nil || !ok {
		return nil, false, err
	}
	return token, true, nil
}

// JobEscrowPut persists the escrow token backing a job.
func (m *Manager) JobEscrowPut(id uint64, token *compute.Token) error {
	if token == nil {
		return fmt.Errorf("state: nil escrow token for job %d", id)
	}
	return m.KVPut(jobEscrowKey(id), token)
}

// JobEscrowDelete removes a job's escrow slot once it is empty or refunded.
func (m *Manager) JobEscrowDelete(id uint64) error {
	return m.KVDelete(jobEscrowKey(id))
}

// RequestGet loads an open compute request by id.
func (m *Manager) RequestGet(id uint64) (*compute.Request, bool, error) {
	req := &compute.Request{}
	ok, err := m.KVGet(requestKey(id), req)
	if err != nil || !ok {
		return nil, false, err
	}
	return req, true, nil
}

// RequestPut persists an open compute request.
func (m *Manager) RequestPut(req *compute.Request) error {
	sanitized, err := compute.SanitizeRequest(req)
	if err != nil {
		return err
	}
	return m.KVPut(requestKey(sanitized.ID), sanitized)
}

// RequestDelete removes a request once it has been accepted.
func (m *Manager) RequestDelete(id uint64) error {
	return m.KVDelete(requestKey(id))
}

// RequestEscrowGet loads the escrow token pre-funding a request.
func (m *Manager) RequestEscrowGet(id uint64) (*compute.Token, bool, error) {
	token := &compute.Token{}
	ok, err := m.KVGet(requestEscrowKey(id), token)
	if err != nil || !ok {
		return nil, false, err
	}
	return token, true, nil
}

// RequestEscrowPut persists the escrow token pre-funding a request.
func (m *Manager) RequestEscrowPut(id uint64, token *compute.Token) error {
	if token == nil {
		return fmt.Errorf("state: nil escrow token for request %d", id)
	}
	return m.KVPut(requestEscrowKey(id), token)
}

// RequestEscrowDelete removes a request's escrow slot after the token moved to
// a job.
func (m *Manager) RequestEscrowDelete(id uint64) error {
	return m.KVDelete(requestEscrowKey(id))
}

// RenterJobsGet lists the renter's job ids in creation order.
func (m *Manager) RenterJobsGet(renter [20]byte) ([]uint64, error) {
	var ids []uint64
	if _, err := m.KVGet(renterJobsKey(renter), &ids); err != nil {
		return nil, err
	}
	return ids, nil
}

// RenterJobsAppend records a new job id under the renter's index.
func (m *Manager) RenterJobsAppend(renter [20]byte, jobID uint64) error {
	ids, err := m.RenterJobsGet(renter)
	if err != nil {
		return err
	}
	return m.KVPut(renterJobsKey(renter), append(ids, jobID))
}

// NextJobID allocates the next dense job id.
func (m *Manager) NextJobID() (uint64, error) {
	return m.nextCounter(jobCounterKey)
}

// NextRequestID allocates the next dense request id.
func (m *Manager) NextRequestID() (uint64, error) {
	return m.nextCounter(requestCounterKey)
}
