// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package registry - JSON-RPC client for the external asset registry
//
// the remote service is "Registry" with one method:
//
//   Registry.TransferPayout(settlement.Request) -> TransferPayoutReply
package registry

import (
	"context"
	"net"
	"net/rpc"
	"net/rpc/jsonrpc"
	"sync"
	"time"

	"github.com/bitmark-inc/logger"

	"github.com/bitmark-inc/marketd/fault"
	"github.com/bitmark-inc/marketd/settlement"
)

const (
	serviceMethod = "Registry.TransferPayout"
	dialTimeout   = 10 * time.Second
)

// Configuration - where the registry gateway listens
type Configuration struct {
	Connect string `gluamapper:"connect" json:"connect"`
}

// TransferPayoutReply - result of a transfer
type TransferPayoutReply struct {
	Payout settlement.Payout `json:"payout"`
}

// Client - connection to a registry gateway, redialled after errors
type Client struct {
	sync.Mutex
	log     *logger.L
	address string
	dial    func(ctx context.Context, address string) (net.Conn, error)
	client  *rpc.Client
}

// New - create a client, the connection is made on first use
func New(configuration *Configuration) (*Client, error) {
	if "" == configuration.Connect {
		return nil, fault.MissingParameters
	}
	dialer := &net.Dialer{Timeout: dialTimeout}
	return &Client{
		log:     logger.New("registry"),
		address: configuration.Connect,
		dial: func(ctx context.Context, address string) (net.Conn, error) {
			return dialer.DialContext(ctx, "tcp", address)
		},
	}, nil
}

// TransferPayout - ask the registry to transfer the asset and
// return its payout breakdown
func (c *Client) TransferPayout(ctx context.Context, request settlement.Request) (settlement.Payout, error) {
	client, err := c.connection(ctx)
	if nil != err {
		c.log.Errorf("connect: %s  error: %s", c.address, err)
		return nil, fault.RegistryCallFailed
	}

	var reply TransferPayoutReply
	call := client.Go(serviceMethod, request, &reply, make(chan *rpc.Call, 1))

	select {
	case <-ctx.Done():
		c.drop(client)
		c.log.Warnf("settlement: %d  request abandoned: %s", request.Settlement, ctx.Err())
		return nil, ctx.Err()
	case <-call.Done:
	}

	if nil != call.Error {
		if _, remote := call.Error.(rpc.ServerError); !remote {
			c.drop(client)
		}
		c.log.Errorf("settlement: %d  registry error: %s", request.Settlement, call.Error)
		return nil, fault.RegistryCallFailed
	}
	if uint32(len(reply.Payout)) > request.MaxPayees {
		return reply.Payout, fault.PayoutExceedsLimit
	}
	return reply.Payout, nil
}

// Close - drop the connection
func (c *Client) Close() {
	c.Lock()
	defer c.Unlock()
	if nil != c.client {
		_ = c.client.Close()
		c.client = nil
	}
}

func (c *Client) connection(ctx context.Context) (*rpc.Client, error) {
	c.Lock()
	defer c.Unlock()

	if nil != c.client {
		return c.client, nil
	}

	conn, err := c.dial(ctx, c.address)
	if nil != err {
		return nil, err
	}
	c.log.Infof("connected to: %s", c.address)
	c.client = jsonrpc.NewClient(conn)
	return c.client, nil
}

// forget a broken connection so the next call redials
func (c *Client) drop(client *rpc.Client) {
	c.Lock()
	defer c.Unlock()
	if client == c.client {
		_ = c.client.Close()
		c.client = nil
	}
}
