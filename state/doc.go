// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package state manages the record storage of the ledger.
// It follows the flow as bellow:
//
//	           o
//	           |
//	  [ revertable state ]
//	           |
//	    [ stacked map ] -> [ journal ] -> [ playback(staging) ] -> [ kv batch ]
//	           |
//	     [ lru cache ]
//	           |
//	    [ committed kv ]
//
// A State is created per instruction. Checkpoints taken with NewCheckpoint can be
// reverted, and nothing reaches the kv store until the staged changes are committed
// in a single batch.
package state
