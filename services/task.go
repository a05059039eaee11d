package services

// Task is the handle of one unit of work started by the coordinator. It is
// done once the work has returned, failed, panicked or been cancelled.
type Task struct {
	done chan struct{}
}

func newTask() *Task {
	return &Task{done: make(chan struct{})}
}

func completedTask() *Task {
	task := newTask()
	close(task.done)
	return task
}

func (t *Task) Done() <-chan struct{} {
	return t.done
}

func (t *Task) Wait() {
	<-t.done
}

// WaitAll returns a task that is done when every given task is done.
func WaitAll(tasks ...*Task) *Task {
	all := newTask()
	go func() {
		defer close(all.done)
		for _, task := range tasks {
			if task != nil {
				task.Wait()
			}
		}
	}()
	return all
}
