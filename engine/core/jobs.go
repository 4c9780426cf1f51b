package core

import (
	"fmt"
	"sync"

	"github.com/spaghettifunk/voxelcraft/engine/containers"
)

// JobTask runs Run on a worker. Its callbacks run later on the goroutine
// that calls JobSystem.Update.
type JobTask struct {
	Name       string
	Run        func() (interface{}, error)
	OnComplete func(result interface{})
	OnFailure  func(err error)
}

type jobResult struct {
	task   JobTask
	result interface{}
	err    error
}

type JobSystem struct {
	numWorkers int
	jobQueue   chan JobTask
	wg         sync.WaitGroup

	// slots bounds the jobs that are queued, running or waiting for Update.
	slots   chan struct{}
	mu      sync.Mutex
	results *containers.RingQueue[jobResult]
	closed  bool
}

var ErrNoWorkers = fmt.Errorf("attempting to create worker pool with less than 1 worker")
var ErrNegativeChannelSize = fmt.Errorf("attempting to create worker pool with a negative channel size")
var ErrJobSystemClosed = fmt.Errorf("job system is shut down")

func NewJobSystem(numWorkers int, channelSize int) (*JobSystem, error) {
	if numWorkers <= 0 {
		return nil, ErrNoWorkers
	}
	if channelSize < 0 {
		return nil, ErrNegativeChannelSize
	}

	capacity := numWorkers + channelSize
	js := &JobSystem{
		numWorkers: numWorkers,
		jobQueue:   make(chan JobTask, channelSize),
		slots:      make(chan struct{}, capacity),
		results:    containers.NewRingQueue[jobResult](capacity),
	}

	js.start()

	return js, nil
}

func (js *JobSystem) start() {
	for i := 0; i < js.numWorkers; i++ {
		js.wg.Add(1)
		go func() {
			defer js.wg.Done()
			for job := range js.jobQueue {
				res := jobResult{task: job}
				res.result, res.err = job.Run()
				if res.err != nil {
					LogError("job '%s' failed: %s", job.Name, res.err)
				}

				js.mu.Lock()
				// Cannot fail: every job holds a slot until Update drains it.
				_ = js.results.Enqueue(res)
				js.mu.Unlock()
			}
		}()
	}
}

/**
 * @brief Shuts the job system down. Running jobs finish, their callbacks
 * are dropped.
 */
func (js *JobSystem) Shutdown() error {
	js.mu.Lock()
	if js.closed {
		js.mu.Unlock()
		return nil
	}
	js.closed = true
	js.mu.Unlock()

	close(js.jobQueue)
	js.wg.Wait()
	return nil
}

/**
 * @brief Runs the callbacks of finished jobs. Should happen once an update
 * cycle, on the main thread.
 */
func (js *JobSystem) Update() {
	for {
		js.mu.Lock()
		res, err := js.results.Dequeue()
		js.mu.Unlock()
		if err != nil {
			return
		}
		<-js.slots

		if res.err != nil {
			if res.task.OnFailure != nil {
				res.task.OnFailure(res.err)
			}
			continue
		}
		if res.task.OnComplete != nil {
			res.task.OnComplete(res.result)
		}
	}
}

/**
 * @brief Submits the provided job to be queued for execution. Blocks while
 * all slots are taken, which only Update frees. Call from the same goroutine
 * as Shutdown.
 */
func (js *JobSystem) Submit(jt JobTask) error {
	js.mu.Lock()
	closed := js.closed
	js.mu.Unlock()
	if closed {
		return ErrJobSystemClosed
	}
	if jt.Run == nil {
		return &InvalidOperationError{Op: "Submit", Reason: fmt.Sprintf("job '%s' has nothing to run", jt.Name)}
	}

	js.slots <- struct{}{}
	js.jobQueue <- jt
	return nil
}
