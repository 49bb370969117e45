package game

import (
	"fmt"
	"log/slog"

	"github.com/udisondev/lurkgo/internal/protocol"
	"github.com/udisondev/lurkgo/internal/world"
)

// handleFight resolves one pooled combat round in the initiator's room.
// Everyone fighting on a side contributes attack to a shared pool; the
// pool hits each opposing participant once, reduced by that target's
// defense. Regen heals a tenth of its value after the hit. A combatant
// whose health ends at or below zero drops out and stops feeding the
// pool for the rest of the round.
func (l *Loop) handleFight(conn Conn) {
	initiator, ok := l.roster.ByConn(conn.ID())
	if !ok {
		slog.Warn("fight from connection with no character", "conn", conn.ID())
		return
	}
	if initiator.Dead() {
		l.sendError(initiator, protocol.CodeOther, "Dead players cannot start battles!")
		return
	}
	room, ok := l.world.RoomByID(initiator.CurrentRoom)
	if !ok {
		slog.Error("character in unknown room", "name", initiator.Name, "room", initiator.CurrentRoom)
		return
	}

	var players []*Character
	for _, name := range room.Characters {
		c, found := l.roster.ByName(name)
		if !found {
			slog.Error("room lists unknown character", "room", room.Name, "name", name)
			continue
		}
		if c.Flags.JoinsBattle() && c.Flags.Alive() {
			players = append(players, c)
		}
	}
	var monsters []*world.Monster
	for _, name := range room.Monsters {
		m, found := l.world.Monster(name)
		if !found {
			continue
		}
		if m.Flags.JoinsBattle() && m.Health > 0 {
			monsters = append(monsters, m)
		}
	}
	if len(monsters) == 0 {
		l.sendError(initiator, protocol.CodeOther, "No monsters in the room to fight!")
		return
	}

	// Считаем пулы атаки обеих сторон
	playerPool, monsterPool := 0, 0
	for _, p := range players {
		playerPool += int(p.Attack)
	}
	for _, m := range monsters {
		monsterPool += int(m.Attack)
	}
	slog.Info("fight", "room", room.Name, "initiator", initiator.Name,
		"players", len(players), "monsters", len(monsters))

	for _, m := range monsters {
		l.sendTo(initiator, &protocol.TextMessage{
			Recipient: initiator.Name,
			Sender:    "Server",
			Text:      fmt.Sprintf("The players are attacking %s!", m.Name),
		})
		damage := max(0, playerPool-int(m.Defense))
		m.Health -= int16(damage)
		m.Health += int16(m.Regen / 10)
		if m.Health <= 0 {
			m.Flags = protocol.FlagsDeadMonster
			monsterPool -= int(m.Attack)
			slog.Info("monster died", "name", m.Name, "room", room.Name)
		}
		l.broadcastToRoom(room, m.Sheet(), "")
	}

	for _, p := range players {
		l.sendTo(initiator, &protocol.TextMessage{
			Recipient: initiator.Name,
			Sender:    "Server",
			Text:      fmt.Sprintf("The monsters are attacking %s!", p.Name),
		})
		damage := max(0, monsterPool-int(p.Defense))
		p.Health -= int16(damage)
		p.Health += int16(p.Regen / 10)
		if p.Health <= 0 {
			p.Flags = protocol.FlagsDeadCharacter
			playerPool -= int(p.Attack)
			slog.Info("character died", "name", p.Name, "room", room.Name)
		}
		l.broadcastToRoom(room, p.Sheet(), "")
	}
}

// handleLoot transfers a dead monster's gold to the initiator. The
// target resolves against the global monster table, so a kill can be
// claimed from anywhere.
func (l *Loop) handleLoot(conn Conn, msg *protocol.Loot) {
	initiator, ok := l.roster.ByConn(conn.ID())
	if !ok {
		slog.Warn("loot from connection with no character", "conn", conn.ID())
		return
	}
	if initiator.Dead() {
		l.sendError(initiator, protocol.CodeOther, "Player is dead and cannot loot!")
		return
	}
	target, ok := l.world.Monster(msg.Target)
	if !ok {
		l.sendError(initiator, protocol.CodeBadMonster, "Not a valid monster to loot!")
		return
	}
	if target.Health > 0 {
		l.sendError(initiator, protocol.CodeBadMonster, "Monster is not dead and cannot be looted!")
		return
	}
	if target.Gold == 0 {
		l.sendError(initiator, protocol.CodeBadMonster, "Monster has already been looted!")
		return
	}

	slog.Info("loot", "name", initiator.Name, "target", target.Name, "gold", target.Gold)
	initiator.Gold += target.Gold
	target.Gold = 0

	if !l.sendTo(initiator, initiator.Sheet()) {
		return
	}
	l.sendTo(initiator, target.Sheet())
}
