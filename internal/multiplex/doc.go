// Package multiplex is the task-execution engine. It runs a set of shell
// commands concurrently under a counting-semaphore parallelism cap, carries
// per-task state transitions and captured output over an event channel to a
// single reporter that owns the task registry, races completion against
// interruption, and assembles the structured run result.
//
// Workers never touch the registry; they only send events. The reporter is
// the registry's sole writer, so task state needs no per-task locking.
package multiplex
