// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package state manages contract storage.
// It follows the flow as bellow:
//
//	         o
//	         |
//	[ revertable state ]
//	         |
//	  [ stacked map ] -> [ journal ] -> [ commit ] -> [ kv store ]
//	         |
//	   [ lru cache ]
//	         |
//	 [ read-only kv store ]
//
// Every write lands in the stacked map first, so a checkpoint taken before a
// call can be reverted to without touching the kv store.
package state
