package opcode

// LBA1 is the Little Big Adventure (Relentless) table. It shares handler
// kinds with LBA2 but has narrower variables, 1-byte animation indices and no
// SWITCH family.
var LBA1 = mustBuild(GameLBA1, lba1Life, lba1Move, lba1Conditions)

var lba1Life = []def{
	0x00: c("END", OpEnd),
	0x01: c("NOP", OpNop),
	0x02: branch("SNIF", OpSnif),
	0x03: jump("OFFSET", OpJump),
	0x04: branch("NEVERIF", OpNeverIf),
	0x06: c("NO_IF", OpNop),
	0x0A: c("LABEL", OpNop, u8),
	0x0B: c("RETURN", OpNop),
	0x0C: branch("IF", OpIf),
	0x0D: branch("SWIF", OpSwif),
	0x0E: branch("ONEIF", OpOneIf),
	0x0F: jump("ELSE", OpJump),
	0x10: c("ENDIF", OpNop),
	0x11: c("BODY", OpBody, body),
	0x12: c("BODY_OBJ", OpBodyObj, actor, body),
	0x13: c("ANIM", OpAnim, anim8),
	0x14: c("ANIM_OBJ", OpAnimObj, actor, anim8),
	0x15: c("SET_LIFE", OpSetBehaviour, label),
	0x16: c("SET_LIFE_OBJ", OpSetBehaviourObj, actor, label),
	0x17: c("SET_TRACK", OpSetTrack, label),
	0x18: c("SET_TRACK_OBJ", OpSetTrackObj, actor, label),
	0x19: c("MESSAGE", OpMessage, textID).with(CmdState),
	0x1A: c("FALLABLE", OpCanFall, u8),
	0x1B: c("SET_DIRMODE", OpSetDirMode, u8).with(SelfDecodes),
	0x1C: c("SET_DIRMODE_OBJ", OpSetDirModeObj, actor, u8).with(SelfDecodes),
	0x1D: c("CAM_FOLLOW", OpCamFollow, actor),
	0x1E: c("SET_COMPORTEMENT_HERO", OpSetHeroBehaviour, u8),
	0x1F: c("SET_FLAG_CUBE", OpSetVarCube, varIdx, u8),
	0x20: c("BEHAVIOUR", OpBehaviour, behaviour),
	0x21: c("SET_BEHAVIOUR", OpSetBehaviour, label),
	0x22: c("SET_BEHAVIOUR_OBJ", OpSetBehaviourObj, actor, label),
	0x23: c("END_BEHAVIOUR", OpEndBehaviour),
	0x24: c("SET_FLAG_GAME", OpSetVarGame, varIdx, u8),
	0x25: c("KILL_OBJ", OpKillObj, actor),
	0x26: c("SUICIDE", OpSuicide),
	0x27: c("USE_ONE_LITTLE_KEY", OpUseLittleKey),
	0x28: c("GIVE_GOLD_PIECES", OpGiveGold, i16),
	0x29: c("END_LIFE", OpEndLife),
	0x2A: c("STOP_L_TRACK", OpStopTrack),
	0x2B: c("RESTORE_L_TRACK", OpRestoreTrack),
	0x2C: c("MESSAGE_OBJ", OpMessageObj, actor, textID).with(CmdState),
	0x2D: c("INC_CHAPTER", OpIncChapter),
	0x2E: c("FOUND_OBJECT", OpFoundObject, u8).with(CmdState),
	0x2F: c("SET_DOOR_LEFT", OpSetDoorLeft, i16),
	0x30: c("SET_DOOR_RIGHT", OpSetDoorRight, i16),
	0x31: c("SET_DOOR_UP", OpSetDoorUp, i16),
	0x32: c("SET_DOOR_DOWN", OpSetDoorDown, i16),
	0x33: c("GIVE_BONUS", OpGiveBonus, u8),
	0x34: c("CHANGE_CUBE", OpChangeCube, u8),
	0x35: c("OBJ_COL", OpObjCol, u8),
	0x36: c("BRICK_COL", OpBrickCol, u8),
	0x37: branch("OR_IF", OpOrIf),
	0x38: c("INVISIBLE", OpInvisible, u8),
	0x39: present("ZOOM", u8),
	0x3A: c("POS_POINT", OpPosPoint, point),
	0x3B: c("SET_MAGIC_LEVEL", OpSetMagicLevel, u8),
	0x3C: c("SUB_MAGIC_POINT", OpSubMagicPoint, u8),
	0x3D: c("SET_LIFE_POINT_OBJ", OpSetLifePointObj, actor, u8),
	0x3E: c("SUB_LIFE_POINT_OBJ", OpSubLifePointObj, actor, u8),
	0x3F: c("HIT_OBJ", OpHitObj, actor, u8),
	0x40: c("PLAY_FLA", OpPlayVideo, str).with(CmdState),
	0x41: c("PLAY_MIDI", OpPlayMusic, u8).with(SkipSideScenes),
	0x42: c("INC_CLOVER_BOX", OpIncCloverBox),
	0x43: c("SET_USED_INVENTORY", OpSetUsedInventory, u8),
	0x44: c("ADD_CHOICE", OpAddChoice, textID),
	0x45: c("ASK_CHOICE", OpAskChoice, textID).with(CmdState),
	0x46: c("BIG_MESSAGE", OpMessage, textID).with(CmdState),
	0x47: present("INIT_PINGOUIN", actor),
	0x48: present("SET_HOLO_POS", u8),
	0x49: present("CLR_HOLO_POS", u8),
	0x4A: c("ADD_FUEL", OpAddFuel, u8),
	0x4B: c("SUB_FUEL", OpSubFuel, u8),
	0x4C: present("SET_GRM", u8),
	0x4D: c("SAY_MESSAGE", OpMessage, textID).with(CmdState),
	0x4E: c("SAY_MESSAGE_OBJ", OpMessageObj, actor, textID).with(CmdState),
	0x4F: c("FULL_POINT", OpFullPoint),
	0x50: c("BETA", OpBeta, i16),
	0x51: present("GRM_OFF"),
	0x52: present("FADE_PAL_RED"),
	0x53: present("FADE_ALARM_RED"),
	0x54: present("FADE_ALARM_PAL"),
	0x55: present("FADE_RED_PAL"),
	0x56: present("FADE_RED_ALARM"),
	0x57: present("FADE_PAL_ALARM"),
	0x58: present("EXPLODE_OBJ", actor),
	0x59: present("BUBBLE_ON"),
	0x5A: present("BUBBLE_OFF"),
	0x5B: c("ASK_CHOICE_OBJ", OpAskChoiceObj, actor, textID).with(CmdState),
	0x5C: present("SET_DARK_PAL"),
	0x5D: present("SET_NORMAL_PAL"),
	0x5E: c("MESSAGE_SENDELL", OpMessage, textID).with(CmdState),
	0x5F: present("ANIM_SET", anim8),
	0x60: present("HOLOMAP_TRAJ", u8),
	0x61: c("GAME_OVER", OpGameOver),
	0x62: c("THE_END", OpTheEnd),
	0x63: c("MIDI_OFF", OpStopMusic),
	0x64: c("PLAY_CD_TRACK", OpPlayMusic, u8).with(SkipSideScenes),
	0x65: present("PROJ_ISO"),
	0x66: present("PROJ_3D"),
	0x67: present("TEXT", textID),
	0x68: present("CLEAR_TEXT"),
	0x69: c("BRUTAL_EXIT", OpBrutalExit),
}

var lba1Move = []def{
	0x00: c("END", OpEnd),
	0x01: c("NOP", OpNop),
	0x02: c("BODY", OpBody, body),
	0x03: c("ANIM", OpAnim, anim8),
	0x04: c("GOTO_POINT", OpGotoPoint, point),
	0x05: c("WAIT_ANIM", OpWaitAnim),
	0x06: c("LOOP", OpNop),
	0x07: c("ANGLE", OpAngle, i16),
	0x08: c("POS_POINT", OpPosPoint, point),
	0x09: c("LABEL", OpTrack, track),
	0x0A: jump("GOTO", OpGoto),
	0x0B: c("STOP", OpEnd),
	0x0C: c("GOTO_SYM_POINT", OpGotoSymPoint, point),
	0x0D: c("WAIT_NUM_ANIM", OpWaitNumAnim, u8, u8),
	0x0E: c("SAMPLE", OpSample, sample).with(SkipSideScenes),
	0x0F: c("GOTO_POINT_3D", OpGotoPoint3D, point),
	0x10: c("SPEED", OpSpeed, i16),
	0x11: c("BACKGROUND", OpBackground, u8),
	0x12: c("WAIT_NUM_SECOND", OpWaitNumSecond, u8, reserved),
	0x13: c("NO_BODY", OpNoBody),
	0x14: c("BETA", OpBeta, i16),
	0x15: c("OPEN_LEFT", OpOpenLeft, i16),
	0x16: c("OPEN_RIGHT", OpOpenRight, i16),
	0x17: c("OPEN_UP", OpOpenUp, i16),
	0x18: c("OPEN_DOWN", OpOpenDown, i16),
	0x19: c("CLOSE", OpClose),
	0x1A: c("WAIT_DOOR", OpWaitDoor),
	0x1B: c("SAMPLE_RND", OpSampleRnd, sample).with(SkipSideScenes),
	0x1C: c("SAMPLE_ALWAYS", OpSampleAlways, sample).with(SkipSideScenes),
	0x1D: c("SAMPLE_STOP", OpSampleStop, sample),
	0x1E: c("PLAY_FLA", OpPlayVideo, str).with(CmdState),
	0x1F: c("REPEAT_SAMPLE", OpRepeatSample, sample, u8).with(SkipSideScenes),
	0x20: c("SIMPLE_SAMPLE", OpSample, sample).with(SkipSideScenes),
	0x21: c("FACE_HERO", OpFaceHero, i16),
	0x22: c("ANGLE_RND", OpAngleRnd, i16, i16),
}

var lba1Conditions = []cond{
	0x00: cd("COL", CondCol, RoleNone, 1),
	0x01: cd("COL_OBJ", CondColObj, RoleActor, 1),
	0x02: cd("DISTANCE", CondDistance, RoleActor, 2),
	0x03: cd("ZONE", CondZone, RoleNone, 1),
	0x04: cd("ZONE_OBJ", CondZoneObj, RoleActor, 1),
	0x05: cd("BODY", CondBody, RoleNone, 1),
	0x06: cd("BODY_OBJ", CondBodyObj, RoleActor, 1),
	0x07: cd("ANIM", CondAnim, RoleNone, 1),
	0x08: cd("ANIM_OBJ", CondAnimObj, RoleActor, 1),
	0x09: cd("L_TRACK", CondCurrentTrack, RoleNone, 1),
	0x0A: cd("L_TRACK_OBJ", CondCurrentTrackObj, RoleActor, 1),
	0x0B: cd("FLAG_CUBE", CondVarCube, RoleVar, 1),
	0x0C: cd("CONE_VIEW", CondConeView, RoleActor, 2),
	0x0D: cd("HIT_BY", CondHitBy, RoleNone, 1),
	0x0E: cd("ACTION", CondAction, RoleNone, 1),
	0x0F: cd("FLAG_GAME", CondVarGame, RoleVar, 1),
	0x10: cd("LIFE_POINT", CondLifePoint, RoleNone, 1),
	0x11: cd("LIFE_POINT_OBJ", CondLifePointObj, RoleActor, 1),
	0x12: cd("NUM_LITTLE_KEYS", CondNumLittleKeys, RoleNone, 1),
	0x13: cd("NUM_GOLD_PIECES", CondNumGoldPieces, RoleNone, 2),
	0x14: cd("BEHAVIOUR", CondBehaviour, RoleNone, 1),
	0x15: cd("CHAPTER", CondChapter, RoleNone, 1),
	0x16: cd("DISTANCE_3D", CondDistance3D, RoleActor, 2),
	0x17: cd("MAGIC_LEVEL", CondMagicLevel, RoleNone, 1),
	0x18: cd("MAGIC_POINTS", CondMagicPoints, RoleNone, 1),
	0x19: cd("USE_INVENTORY", CondUseInventory, RoleVar, 1),
	0x1A: cd("CHOICE", CondChoice, RoleNone, 2),
	0x1B: cd("FUEL", CondFuel, RoleNone, 1),
	0x1C: cd("CARRIED_BY", CondCarriedBy, RoleNone, 1),
	0x1D: cd("CDROM", CondCDROM, RoleNone, 1),
}
