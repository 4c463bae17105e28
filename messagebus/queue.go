// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package messagebus

import (
	"sync"
)

// DefaultQueueSize - capacity used when a size of zero is given
const DefaultQueueSize = 1000

// Message - a command and its parameters
type Message struct {
	Command    string
	Parameters []interface{}
}

// Queue - a single consumer queue
type Queue struct {
	sync.RWMutex
	c      chan Message
	closed bool
}

// New - create a queue holding up to size messages
func New(size int) *Queue {
	if size <= 0 {
		size = DefaultQueueSize
	}
	return &Queue{
		c: make(chan Message, size),
	}
}

// Send - queue a command, blocking while the queue is full
//
// returns false if the queue has been closed
func (queue *Queue) Send(command string, parameters ...interface{}) bool {
	queue.RLock()
	defer queue.RUnlock()

	if queue.closed {
		return false
	}
	queue.c <- Message{
		Command:    command,
		Parameters: parameters,
	}
	return true
}

// SendUntil - as Send but gives up once done is closed
func (queue *Queue) SendUntil(done <-chan struct{}, command string, parameters ...interface{}) bool {
	queue.RLock()
	defer queue.RUnlock()

	if queue.closed {
		return false
	}
	select {
	case queue.c <- Message{Command: command, Parameters: parameters}:
		return true
	case <-done:
		return false
	}
}

// TrySend - queue a command only if there is space
func (queue *Queue) TrySend(command string, parameters ...interface{}) bool {
	queue.RLock()
	defer queue.RUnlock()

	if queue.closed {
		return false
	}
	select {
	case queue.c <- Message{Command: command, Parameters: parameters}:
		return true
	default:
		return false
	}
}

// Chan - channel to read from
func (queue *Queue) Chan() <-chan Message {
	return queue.c
}

// Len - number of queued messages
func (queue *Queue) Len() int {
	return len(queue.c)
}

// Close - stop accepting messages, the channel is closed once any
// blocked senders have finished
func (queue *Queue) Close() {
	queue.Lock()
	defer queue.Unlock()

	if !queue.closed {
		queue.closed = true
		close(queue.c)
	}
}
