// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package settlement - two step purchase settlement
//
// Step one runs inside the purchase transaction: the listing has
// already been removed and Begin stores a pending settlement marker.
// After commit Submit queues the marker id for the dispatcher.
//
// The dispatcher sends the transfer-with-payout request to the asset
// registry and queues the outcome for the resolver, which runs the
// continuation: in one transaction it journals the seller proceeds
// and the platform cut and deletes the marker. A marker can only be
// deleted once so the continuation runs at most once per settlement.
//
// Funds are released whether or not the registry reported success;
// a failed transfer is logged and counted. Markers left pending by a
// shutdown are queued again by Restore when the daemon next starts.
package settlement
