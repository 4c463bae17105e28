// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package fault

// GenericError - error base
type GenericError string

// to allow for different classes of errors
type ExistsError GenericError
type InvalidError GenericError
type NotFoundError GenericError
type PermissionError GenericError
type ProcessError GenericError
type ResourceError GenericError

// common errors - keep in alphabetic order
var (
	AlreadyInitialised         = ExistsError("already initialised")
	AmountOverflow             = InvalidError("amount exceeds 128 bits")
	AuctionClosed              = InvalidError("auction closed")
	AuctionNotClosed           = InvalidError("auction not closed")
	AuctionNotOpen             = InvalidError("auction not open")
	BidTooLow                  = InvalidError("bid must exceed current highest price")
	DatabaseIsNotSet           = ProcessError("database is not set")
	DatabaseVersion            = ProcessError("incompatible database version")
	DuplicatePoolPrefix        = ProcessError("duplicate storage pool prefix")
	InsufficientDeposit        = ResourceError("deposit below minimum storage quota")
	InsufficientFunds          = InvalidError("attached funds below price")
	InsufficientStorageBalance = ResourceError("insufficient storage balance")
	InvalidAccount             = InvalidError("invalid account")
	InvalidAssetId             = InvalidError("invalid asset id")
	InvalidAuctionPeriod       = InvalidError("auction end must be after start")
	InvalidBasisPoints         = InvalidError("basis points exceed 10000")
	InvalidCount               = InvalidError("invalid count")
	InvalidConfiguration       = InvalidError("configuration must return a table")
	InvalidCursor              = InvalidError("invalid cursor")
	InvalidIpAddress           = InvalidError("invalid IP address")
	InvalidListingKey          = InvalidError("invalid listing key")
	InvalidLoggerChannel       = InvalidError("invalid logger channel")
	InvalidNumber              = InvalidError("invalid number")
	InvalidStructPointer       = InvalidError("invalid struct pointer")
	IsAuction                  = InvalidError("listing is an auction")
	ListingNotApproved         = NotFoundError("listing not approved")
	ListingNotFound            = NotFoundError("listing not found")
	MissingParameters          = InvalidError("missing parameters")
	NoWinningBid               = InvalidError("auction has no bids")
	NotAnAuction               = InvalidError("listing is not an auction")
	NotAuthorised              = PermissionError("not authorised")
	NotHighestBidder           = PermissionError("caller is not the highest bidder")
	NotInitialised             = NotFoundError("not initialised")
	NotListingPack             = InvalidError("not a listing pack")
	NotSettlementPack          = InvalidError("not a settlement pack")
	NotPayoutPack              = InvalidError("not a payout pack")
	NotKeySetPack              = InvalidError("not a key set pack")
	OwnerMustBeSigner          = PermissionError("owner must be the signer")
	PayoutExceedsLimit         = InvalidError("payout exceeds maximum payees")
	RateLimiting               = InvalidError("rate limiting")
	RegistryCallFailed         = ProcessError("asset registry call failed")
	RequiresOneMinorUnit       = InvalidError("requires attached deposit of exactly one minor unit")
	SellerCannotBid            = PermissionError("seller cannot bid")
	SettlementNotFound         = NotFoundError("settlement not found")
	TransactionAlreadyInUse    = ProcessError("transaction already in use")
	TransactionNotInUse        = ProcessError("transaction not in use")
)

// the error interface base method
func (e GenericError) Error() string { return string(e) }

// the error interface methods
func (e ExistsError) Error() string     { return string(e) }
func (e InvalidError) Error() string    { return string(e) }
func (e NotFoundError) Error() string   { return string(e) }
func (e PermissionError) Error() string { return string(e) }
func (e ProcessError) Error() string    { return string(e) }
func (e ResourceError) Error() string   { return string(e) }

// determine the class of an error
func IsErrExists(e error) bool     { _, ok := e.(ExistsError); return ok }
func IsErrInvalid(e error) bool    { _, ok := e.(InvalidError); return ok }
func IsErrNotFound(e error) bool   { _, ok := e.(NotFoundError); return ok }
func IsErrPermission(e error) bool { _, ok := e.(PermissionError); return ok }
func IsErrProcess(e error) bool    { _, ok := e.(ProcessError); return ok }
func IsErrResource(e error) bool   { _, ok := e.(ResourceError); return ok }

// IsValidation - true for any failed precondition that a caller can
// correct: bad input, missing or duplicate record, or wrong caller
func IsValidation(e error) bool {
	return IsErrInvalid(e) || IsErrNotFound(e) || IsErrExists(e) || IsErrPermission(e)
}
