// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package runtime

import "github.com/stakefactory/stakefactory/metrics"

var (
	metricInstructionCount    = metrics.LazyLoadCounterVec("runtime_instruction_count", []string{"status"})
	metricInstructionDuration = metrics.LazyLoadHistogram("runtime_instruction_duration_ms", metrics.BucketInstruction)
	metricCommittedRecords    = metrics.LazyLoadCounter("runtime_committed_records_count")
	metricSnapshotsTaken      = metrics.LazyLoadCounter("runtime_snapshots_taken_count")
)
