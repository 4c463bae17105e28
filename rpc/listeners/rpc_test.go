// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package listeners_test

import (
	"net"
	"net/rpc"
	"net/rpc/jsonrpc"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/bitmark-inc/logger"

	"github.com/bitmark-inc/marketd/counter"
	"github.com/bitmark-inc/marketd/fault"
	"github.com/bitmark-inc/marketd/fixtures"
	"github.com/bitmark-inc/marketd/rpc/listeners"
)

type Add struct{}
type AddArg struct {
	A, B int
}

func (a Add) Add(arg *AddArg, reply *int) error {
	*reply = arg.A + arg.B
	return nil
}

func TestMain(m *testing.M) {
	fixtures.Main(m)
}

func newServer(t *testing.T) *rpc.Server {
	s := rpc.NewServer()
	err := s.Register(Add{})
	if nil != err {
		t.Fatalf("register with error: %s", err)
	}
	return s
}

func dial(t *testing.T, l listeners.Listener) *rpc.Client {
	addresses := l.Addresses()
	if 1 != len(addresses) {
		t.Fatalf("wrong address count: %d", len(addresses))
	}
	conn, err := net.Dial("tcp", addresses[0].String())
	if nil != err {
		t.Fatalf("dial with error: %s", err)
	}
	return jsonrpc.NewClient(conn)
}

func TestRpcListenerServe(t *testing.T) {
	con := listeners.RPCConfiguration{
		MaximumConnections: 5,
		Listen:             []string{"127.0.0.1:0"},
	}
	count := counter.Counter(0)

	l, err := listeners.NewRPC(&con, logger.New("test"), &count, newServer(t))
	assert.Nil(t, err, "wrong NewRPC")

	err = l.Serve()
	assert.Nil(t, err, "wrong Serve")
	defer l.Stop()

	client := dial(t, l)
	defer client.Close()

	arg := AddArg{
		A: 2,
		B: 5,
	}
	var reply int
	err = client.Call("Add.Add", &arg, &reply)
	assert.Nil(t, err, "wrong client Call")
	assert.Equal(t, arg.A+arg.B, reply, "wrong result")
	assert.Equal(t, uint64(1), count.Uint64(), "wrong connection count")
}

func TestRpcListenerConnectionLimit(t *testing.T) {
	con := listeners.RPCConfiguration{
		MaximumConnections: 1,
		Listen:             []string{"127.0.0.1:0"},
	}
	count := counter.Counter(0)

	l, err := listeners.NewRPC(&con, logger.New("test"), &count, newServer(t))
	assert.Nil(t, err, "wrong NewRPC")
	assert.Nil(t, l.Serve(), "wrong Serve")
	defer l.Stop()

	first := dial(t, l)
	defer first.Close()

	var reply int
	err = first.Call("Add.Add", &AddArg{A: 1, B: 1}, &reply)
	assert.Nil(t, err, "first connection rejected")

	second := dial(t, l)
	defer second.Close()
	err = second.Call("Add.Add", &AddArg{A: 1, B: 1}, &reply)
	assert.NotNil(t, err, "second connection accepted")
}

func TestRpcListenerWhenMaxConnectionCountTooSmall(t *testing.T) {
	con := listeners.RPCConfiguration{
		MaximumConnections: 0,
		Listen:             []string{"127.0.0.1:2150"},
	}
	count := counter.Counter(0)

	_, err := listeners.NewRPC(&con, logger.New("test"), &count, rpc.NewServer())
	assert.Equal(t, fault.MissingParameters, err, "wrong error")
}

func TestRpcListenerWhenEmptyListen(t *testing.T) {
	con := listeners.RPCConfiguration{
		MaximumConnections: 1,
		Listen:             []string{},
	}
	count := counter.Counter(0)

	_, err := listeners.NewRPC(&con, logger.New("test"), &count, rpc.NewServer())
	assert.Equal(t, fault.MissingParameters, err, "wrong error")
}

func TestRpcListenerWhenInvalidAddress(t *testing.T) {
	count := counter.Counter(0)

	for _, listen := range []string{"localhost:2150", "127.0.0.1", "[::1:2150"} {
		con := listeners.RPCConfiguration{
			MaximumConnections: 1,
			Listen:             []string{listen},
		}
		_, err := listeners.NewRPC(&con, logger.New("test"), &count, rpc.NewServer())
		assert.Equal(t, fault.InvalidIpAddress, err, "address: %q", listen)
	}
}

func TestRpcListenerWhenMissingCertificate(t *testing.T) {
	con := listeners.RPCConfiguration{
		MaximumConnections: 1,
		Listen:             []string{"127.0.0.1:0"},
		Certificate:        "/nonexistent/rpc.crt",
		PrivateKey:         "/nonexistent/rpc.key",
	}
	count := counter.Counter(0)

	_, err := listeners.NewRPC(&con, logger.New("test"), &count, rpc.NewServer())
	assert.NotNil(t, err, "missing certificate accepted")
}
