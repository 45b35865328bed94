// Package queue parses and runs command queues.
//
// A command line is a list of bulb tokens followed by --commands:
//
//	kitchen AC:E6 --on --sleep 500 --color 0 255 0 0 --status
//
// Parse turns it into an Invocation of typed Commands and reports every
// parameter problem at once as a ValidationError, before any bulb is
// contacted. Engine then replays the same queue on each bulb: connect, run
// the commands in order, disconnect. A failing command is recorded in the
// bulb's report and the queue goes on; losing the connection skips the rest
// of that bulb's queue only. Output commands snapshot the report so the
// caller can render them once every bulb is done.
package queue
