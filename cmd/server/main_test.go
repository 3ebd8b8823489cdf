package main

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestCloseLoadedSourceWaitsForSlowLoad(t *testing.T) {
	closeSource := make(chan func(), 1)
	closed := make(chan struct{})
	go func() {
		time.Sleep(20 * time.Millisecond)
		closeSource <- func() { close(closed) }
	}()

	assert.True(t, closeLoadedSource(closeSource, time.Second))
	select {
	case <-closed:
	default:
		t.Fatal("close func was not run")
	}
}

func TestCloseLoadedSourceGivesUp(t *testing.T) {
	closeSource := make(chan func(), 1)
	assert.False(t, closeLoadedSource(closeSource, 10*time.Millisecond))
}
