package opcode

// Op is the closed set of command handler kinds. Several opcode bytes, in
// either program family or game version, may share one Op.
type Op uint16

const (
	OpUnknown Op = iota
	OpNop
	OpEnd

	// Branches and flow.
	OpIf
	OpSnif
	OpSwif
	OpOneIf
	OpNeverIf
	OpOrIf
	OpAndIf
	OpJump
	OpSwitch
	OpCase
	OpOrCase
	OpEndSwitch

	// Comportments (LIFE sections).
	OpBehaviour
	OpSetBehaviour
	OpSetBehaviourObj
	OpEndBehaviour
	OpSaveBehaviour
	OpRestoreBehaviour
	OpSaveBehaviourObj
	OpRestoreBehaviourObj

	// Track control from LIFE.
	OpSetTrack
	OpSetTrackObj
	OpStopTrack
	OpRestoreTrack
	OpStopTrackObj
	OpRestoreTrackObj
	OpTrackToVarGame
	OpVarGameToTrack

	// Actor state.
	OpBody
	OpBodyObj
	OpAnim
	OpAnimObj
	OpNoBody
	OpInvisible
	OpShadowObj
	OpBeta
	OpPosPoint
	OpCanFall
	OpSetDirMode
	OpSetDirModeObj
	OpCamFollow
	OpKillObj
	OpHitObj
	OpSetLifePointObj
	OpSubLifePointObj
	OpAddLifePointObj
	OpSetArmor
	OpSetArmorObj
	OpBackground
	OpObjCol
	OpBrickCol
	OpSetSprite
	OpSetFrame
	OpSetDoorLeft
	OpSetDoorRight
	OpSetDoorUp
	OpSetDoorDown

	// Variable banks.
	OpSetVarGame
	OpAddVarGame
	OpSubVarGame
	OpSetVarCube
	OpAddVarCube
	OpSubVarCube

	// Hero and inventory.
	OpGiveGold
	OpAddGold
	OpUseLittleKey
	OpIncChapter
	OpSetMagicLevel
	OpSubMagicPoint
	OpAddFuel
	OpSubFuel
	OpIncCloverBox
	OpFullPoint
	OpSetUsedInventory
	OpStateInventory
	OpSetHeroBehaviour
	OpGiveBonus
	OpFoundObject

	// Dialog and video, parked on the UI collaborator.
	OpMessage
	OpMessageObj
	OpAddChoice
	OpAskChoice
	OpAskChoiceObj
	OpEndMessage
	OpEndMessageObj
	OpPlayVideo

	// Audio.
	OpSample
	OpSampleRnd
	OpSampleAlways
	OpRepeatSample
	OpSampleStop
	OpPlayMusic
	OpStopMusic

	// Scene.
	OpChangeCube
	OpSetChangeCube

	// Termination.
	OpEndLife
	OpSuicide
	OpBrutalExit
	OpGameOver
	OpTheEnd

	// Presentation-only commands forwarded to the presenter.
	OpPresent

	// MOVE program.
	OpTrack
	OpGoto
	OpGotoPoint
	OpGotoSymPoint
	OpGotoPoint3D
	OpAngle
	OpAngleRnd
	OpFaceHero
	OpSpeed
	OpWaitAnim
	OpWaitNumAnim
	OpWaitNumSecond
	OpWaitNumDsec
	OpWaitNumSecondRnd
	OpWaitNumDecimalRnd
	OpWaitDoor
	OpOpenLeft
	OpOpenRight
	OpOpenUp
	OpOpenDown
	OpClose

	// NumOps is the size of handler arrays indexed by Op.
	NumOps
)

// Cond is the closed set of condition kinds.
type Cond uint8

const (
	CondUnknown Cond = iota
	CondCol
	CondColObj
	CondDistance
	CondZone
	CondZoneObj
	CondBody
	CondBodyObj
	CondAnim
	CondAnimObj
	CondCurrentTrack
	CondCurrentTrackObj
	CondVarCube
	CondConeView
	CondHitBy
	CondAction
	CondVarGame
	CondLifePoint
	CondLifePointObj
	CondNumLittleKeys
	CondNumGoldPieces
	CondBehaviour
	CondChapter
	CondDistance3D
	CondMagicLevel
	CondMagicPoints
	CondUseInventory
	CondChoice
	CondFuel
	CondCarriedBy
	CondCDROM
	CondLadder
	CondRnd
	CondRail
	CondBeta
	CondBetaObj
	CondCarriedObjBy
	CondAngle
	CondDistanceMessage
	CondHitObjBy
	CondRealAngle
	CondDemo
	CondColDecors
	CondColDecorsObj
	CondProcessor
	CondObjectDisplayed
	CondAngleObj

	// NumConds is the size of evaluator arrays indexed by Cond.
	NumConds
)
