// Package shard splits encoded payload text into size-bounded JavaScript
// modules plus one aggregator module that reassembles them.
//
// Every shard module is
//
//	export default function () { return "<chunk>"; }
//
// The literal sits behind a function so that declaration emitters and other
// type-inference tools do not copy it into generated typings.
//
// The aggregator imports shard0..shardN-1 and default-exports their results
// concatenated in ascending index order. With no shards it exports "".
package shard
