// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package eventdb

const eventTableSchema = `
create table if not exists event (
	seq integer primary key autoincrement,
	instruction text not null,
	name text not null,
	poolID integer not null,
	member blob(20),
	time integer not null,
	data blob
);

CREATE INDEX if not exists eventInstructionIndex on event(instruction);
CREATE INDEX if not exists eventPoolIndex on event(poolID);
CREATE INDEX if not exists eventMemberIndex on event(member);
CREATE INDEX if not exists eventNameIndex on event(name);
`

const insertEventQuery = "INSERT INTO event(instruction, name, poolID, member, time, data) VALUES(?, ?, ?, ?, ?, ?)"
