package renderer

import (
	"math/rand"
	"runtime"
	"sync"

	"github.com/df07/go-wormhole-raytracer/pkg/integrator"
	"github.com/df07/go-wormhole-raytracer/pkg/scene"
)

// FrameJob is the read-only state shared by every task in one frame
type FrameJob struct {
	Scene       *scene.Scene
	Generator   *RayGenerator
	Integrator  integrator.Integrator
	Accumulator *Accumulator
	Width       int
}

// RowTask renders one contiguous chunk of rows
type RowTask struct {
	TaskID   int
	StartRow int // inclusive
	EndRow   int // exclusive
	Seed     int64
	Job      *FrameJob
}

// RowResult reports a finished chunk
type RowResult struct {
	TaskID int
	Pixels int
	Error  error
}

// WorkerPool manages parallel row rendering
type WorkerPool struct {
	taskQueue   chan RowTask
	resultQueue chan RowResult
	numWorkers  int
	wg          sync.WaitGroup
	startOnce   sync.Once
	stopOnce    sync.Once
}

// NewWorkerPool creates a pool with room for maxTasks queued chunks
func NewWorkerPool(numWorkers, maxTasks int) *WorkerPool {
	if numWorkers <= 0 {
		numWorkers = runtime.NumCPU()
	}
	if maxTasks <= 0 {
		maxTasks = numWorkers
	}

	return &WorkerPool{
		taskQueue:   make(chan RowTask, maxTasks),
		resultQueue: make(chan RowResult, maxTasks),
		numWorkers:  numWorkers,
	}
}

// Start begins all workers. Calling it again has no effect.
func (wp *WorkerPool) Start() {
	wp.startOnce.Do(func() {
		for i := 0; i < wp.numWorkers; i++ {
			wp.wg.Add(1)
			go wp.run()
		}
	})
}

// Stop gracefully shuts down all workers
func (wp *WorkerPool) Stop() {
	wp.stopOnce.Do(func() {
		close(wp.taskQueue)
		wp.wg.Wait()
		close(wp.resultQueue)
	})
}

// SubmitTask submits a row task to the worker pool
func (wp *WorkerPool) SubmitTask(task RowTask) {
	wp.taskQueue <- task
}

// GetResult retrieves a completed row result
func (wp *WorkerPool) GetResult() (RowResult, bool) {
	result, ok := <-wp.resultQueue
	return result, ok
}

// GetNumWorkers returns the number of workers in the pool
func (wp *WorkerPool) GetNumWorkers() int {
	return wp.numWorkers
}

func (wp *WorkerPool) run() {
	defer wp.wg.Done()

	for task := range wp.taskQueue {
		wp.resultQueue <- renderRows(task)
	}
}

// renderRows traces one sample for every pixel in the task's rows.
// Each task owns its random source so results do not depend on scheduling.
func renderRows(task RowTask) RowResult {
	job := task.Job
	random := rand.New(rand.NewSource(task.Seed))

	pixels := 0
	for y := task.StartRow; y < task.EndRow; y++ {
		for x := 0; x < job.Width; x++ {
			i := y*job.Width + x
			ray := job.Generator.GenerateRay(i, random)
			job.Accumulator.Add(i, job.Integrator.RayColor(ray, job.Scene, random))
			pixels++
		}
	}
	return RowResult{TaskID: task.TaskID, Pixels: pixels}
}

// taskSeed mixes the base seed, frame number and chunk index
func taskSeed(seed int64, frame, chunk int) int64 {
	return seed*1_000_003 + int64(frame)*7_919 + int64(chunk)*104_729 + 1
}
