package opcode

// LBA2 is the Little Big Adventure 2 table.
var LBA2 = mustBuild(GameLBA2, lba2Life, lba2Move, lba2Conditions)

var lba2Life = []def{
	0x00: c("END", OpEnd),
	0x01: c("NOP", OpNop),
	0x02: branch("SNIF", OpSnif),
	0x03: jump("OFFSET", OpJump),
	0x04: branch("NEVERIF", OpNeverIf),
	0x06: c("NO_IF", OpNop),
	0x0A: present("PALETTE", u8),
	0x0B: c("RETURN", OpNop),
	0x0C: branch("IF", OpIf),
	0x0D: branch("SWIF", OpSwif),
	0x0E: branch("ONEIF", OpOneIf),
	0x0F: jump("ELSE", OpJump),
	0x10: c("ENDIF", OpNop),
	0x11: c("BODY", OpBody, body),
	0x12: c("BODY_OBJ", OpBodyObj, actor, body),
	0x13: c("ANIM", OpAnim, anim16),
	0x14: c("ANIM_OBJ", OpAnimObj, actor, anim16),
	0x15: present("SET_CAMERA", u8, u8),
	0x16: present("CAMERA_CENTER", u8),
	0x17: c("SET_TRACK", OpSetTrack, label),
	0x18: c("SET_TRACK_OBJ", OpSetTrackObj, actor, label),
	0x19: c("MESSAGE", OpMessage, textID).with(CmdState),
	0x1A: c("CAN_FALL", OpCanFall, u8),
	0x1B: c("SET_DIRMODE", OpSetDirMode, u8).with(SelfDecodes),
	0x1C: c("SET_DIRMODE_OBJ", OpSetDirModeObj, actor, u8).with(SelfDecodes),
	0x1D: c("CAM_FOLLOW", OpCamFollow, actor),
	0x1E: c("SET_COMPORTEMENT_HERO", OpSetHeroBehaviour, u8),
	0x1F: c("SET_VAR_CUBE", OpSetVarCube, varIdx, u8),
	0x20: c("BEHAVIOUR", OpBehaviour, behaviour),
	0x21: c("SET_BEHAVIOUR", OpSetBehaviour, label),
	0x22: c("SET_BEHAVIOUR_OBJ", OpSetBehaviourObj, actor, label),
	0x23: c("END_BEHAVIOUR", OpEndBehaviour),
	0x24: c("SET_VAR_GAME", OpSetVarGame, varIdx, i16),
	0x25: c("KILL_OBJ", OpKillObj, actor),
	0x26: c("SUICIDE", OpSuicide),
	0x27: c("USE_ONE_LITTLE_KEY", OpUseLittleKey),
	0x28: c("GIVE_GOLD_PIECES", OpGiveGold, i16),
	0x29: c("END_LIFE", OpEndLife),
	0x2A: c("STOP_CURRENT_TRACK", OpStopTrack),
	0x2B: c("RESTORE_LAST_TRACK", OpRestoreTrack),
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
	0x39: c("SHADOW_OBJ", OpShadowObj, actor, u8),
	0x3A: c("POS_POINT", OpPosPoint, point),
	0x3B: c("SET_MAGIC_LEVEL", OpSetMagicLevel, u8),
	0x3C: c("SUB_MAGIC_POINT", OpSubMagicPoint, u8),
	0x3D: c("SET_LIFE_POINT_OBJ", OpSetLifePointObj, actor, u8),
	0x3E: c("SUB_LIFE_POINT_OBJ", OpSubLifePointObj, actor, u8),
	0x3F: c("HIT_OBJ", OpHitObj, actor, u8),
	0x40: c("PLAY_SMACKER", OpPlayVideo, str).with(CmdState),
	0x41: present("ECLAIR", u8),
	0x42: c("INC_CLOVER_BOX", OpIncCloverBox),
	0x43: c("SET_USED_INVENTORY", OpSetUsedInventory, u8),
	0x44: c("ADD_CHOICE", OpAddChoice, textID),
	0x45: c("ASK_CHOICE", OpAskChoice, textID).with(CmdState),
	0x46: present("INIT_BUGGY", u8),
	0x47: present("MEMO_SLATE", u8),
	0x48: present("SET_HOLO_POS", u8),
	0x49: present("CLR_HOLO_POS", u8),
	0x4A: c("ADD_FUEL", OpAddFuel, u8),
	0x4B: c("SUB_FUEL", OpSubFuel, u8),
	0x4C: present("SET_GRM", u8),
	0x4D: c("SET_CHANGE_CUBE", OpSetChangeCube, u8, u8),
	0x4E: c("MESSAGE_ZOE", OpMessage, textID).with(CmdState),
	0x4F: c("FULL_POINT", OpFullPoint),
	0x50: c("BETA", OpBeta, i16),
	0x51: present("FADE_TO_PAL", u8),
	0x52: present("ACTION"),
	0x53: c("SET_FRAME", OpSetFrame, u8),
	0x54: c("SET_SPRITE", OpSetSprite, i16),
	0x55: present("SET_FRAME_3DS", u8),
	0x56: present("IMPACT_OBJ", actor, i16, i16),
	0x57: present("IMPACT_POINT", point, i16),
	0x58: c("ADD_MESSAGE", OpMessage, textID).with(CmdState),
	0x59: present("BALLOON", u8),
	0x5A: present("NO_SHOCK", u8),
	0x5B: c("ASK_CHOICE_OBJ", OpAskChoiceObj, actor, textID).with(CmdState),
	0x5C: present("CINEMA_MODE", u8),
	0x5D: present("SAVE_HERO"),
	0x5E: present("RESTORE_HERO"),
	0x5F: present("ANIM_SET", anim16),
	0x60: present("RAIN", u8),
	0x61: c("GAME_OVER", OpGameOver),
	0x62: c("THE_END", OpTheEnd),
	0x63: present("ESCALATOR", u8, u8),
	0x64: c("PLAY_MUSIC", OpPlayMusic, u8).with(SkipSideScenes),
	0x65: c("TRACK_TO_VAR_GAME", OpTrackToVarGame, varIdx),
	0x66: c("VAR_GAME_TO_TRACK", OpVarGameToTrack, varIdx),
	0x67: present("ANIM_TEXTURE", u8),
	0x68: c("ADD_MESSAGE_OBJ", OpMessageObj, actor, textID).with(CmdState),
	0x69: c("BRUTAL_EXIT", OpBrutalExit),
	0x6A: c("REM", OpNop),
	0x6B: present("LADDER", u8, u8),
	0x6C: c("SET_ARMOR", OpSetArmor, u8),
	0x6D: c("SET_ARMOR_OBJ", OpSetArmorObj, actor, u8),
	0x6E: c("ADD_LIFE_POINT_OBJ", OpAddLifePointObj, actor, u8),
	0x6F: c("STATE_INVENTORY", OpStateInventory, u8, u8),
	0x70: branch("AND_IF", OpAndIf),
	0x71: c("SWITCH", OpSwitch).with(SelfDecodes | HasCondition),
	0x72: c("OR_CASE", OpOrCase, label).with(SelfDecodes | HasOperand),
	0x73: c("CASE", OpCase, label).with(SelfDecodes | HasOperand),
	0x74: c("DEFAULT", OpNop),
	0x75: jump("BREAK", OpJump),
	0x76: c("END_SWITCH", OpEndSwitch),
	0x77: present("SET_HIT_ZONE", u8, u8),
	0x78: c("SAVE_COMPORTEMENT", OpSaveBehaviour),
	0x79: c("RESTORE_COMPORTEMENT", OpRestoreBehaviour),
	0x7A: c("SAMPLE", OpSample, sample).with(SkipSideScenes),
	0x7B: c("SAMPLE_RND", OpSampleRnd, sample).with(SkipSideScenes),
	0x7C: c("SAMPLE_ALWAYS", OpSampleAlways, sample).with(SkipSideScenes),
	0x7D: c("SAMPLE_STOP", OpSampleStop, sample),
	0x7E: c("REPEAT_SAMPLE", OpRepeatSample, sample, u8).with(SkipSideScenes),
	0x7F: c("BACKGROUND", OpBackground, u8),
	0x80: c("ADD_VAR_GAME", OpAddVarGame, varIdx, i16),
	0x81: c("SUB_VAR_GAME", OpSubVarGame, varIdx, i16),
	0x82: c("ADD_VAR_CUBE", OpAddVarCube, varIdx, u8),
	0x83: c("SUB_VAR_CUBE", OpSubVarCube, varIdx, u8),
	0x85: present("SET_RAIL", u8, u8),
	0x86: present("INVERSE_BETA"),
	0x87: c("NO_BODY", OpNoBody),
	0x88: c("ADD_GOLD_PIECES", OpAddGold, i16),
	0x89: c("STOP_CURRENT_TRACK_OBJ", OpStopTrackObj, actor),
	0x8A: c("RESTORE_LAST_TRACK_OBJ", OpRestoreTrackObj, actor),
	0x8B: c("SAVE_COMPORTEMENT_OBJ", OpSaveBehaviourObj, actor),
	0x8C: c("RESTORE_COMPORTEMENT_OBJ", OpRestoreBehaviourObj, actor),
	0x8D: present("SPY", u8),
	0x8E: c("DEBUG", OpNop),
	0x8F: c("DEBUG_OBJ", OpNop, actor),
	0x90: present("POPCORN"),
	0x91: present("FLOW_POINT", point, u8),
	0x92: present("FLOW_OBJ", actor, u8),
	0x93: present("SET_ANIM_DIAL", i16),
	0x94: present("PCX", i16),
	0x95: c("END_MESSAGE", OpEndMessage),
	0x96: c("END_MESSAGE_OBJ", OpEndMessageObj, actor),
	0x97: present("PARM_SAMPLE", i16, u8, i16),
	0x98: present("NEW_SAMPLE", sample, i16, u8, i16),
	0x99: present("POS_OBJ_AROUND", actor, actor),
	0x9A: present("PCX_MESS_OBJ", u8, actor, textID),
}

var lba2Move = []def{
	0x00: c("END", OpEnd),
	0x01: c("NOP", OpNop),
	0x02: c("BODY", OpBody, body),
	0x03: c("ANIM", OpAnim, anim16),
	0x04: c("GOTO_POINT", OpGotoPoint, point),
	0x05: c("WAIT_ANIM", OpWaitAnim),
	0x06: c("LOOP", OpNop),
	0x07: c("ANGLE", OpAngle, i16),
	0x08: c("POS_POINT", OpPosPoint, point),
	0x09: c("TRACK", OpTrack, track),
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
	0x1E: c("PLAY_ACF", OpPlayVideo, str).with(CmdState),
	0x1F: c("REPEAT_SAMPLE", OpRepeatSample, sample, u8).with(SkipSideScenes),
	0x20: c("SIMPLE_SAMPLE", OpSample, sample).with(SkipSideScenes),
	0x21: c("FACE_HERO", OpFaceHero, i16),
	0x22: c("ANGLE_RND", OpAngleRnd, i16, i16),
	0x23: present("REPLACE"),
	0x24: c("WAIT_NUM_DSEC", OpWaitNumDsec, u8, reserved),
	0x25: present("DO"),
	0x26: c("SPRITE", OpSetSprite, i16),
	0x27: c("WAIT_NUM_SECOND_RND", OpWaitNumSecondRnd, u8, reserved),
	0x28: present("AFF_TIMER"),
	0x29: c("SET_FRAME", OpSetFrame, u8),
	0x2A: present("SET_FRAME_3DS", u8),
	0x2B: present("SET_START_3DS", u8),
	0x2C: present("SET_END_3DS", u8),
	0x2D: present("START_ANIM_3DS", u8),
	0x2E: present("STOP_ANIM_3DS"),
	0x2F: c("WAIT_ANIM_3DS", OpWaitAnim),
	0x30: present("WAIT_FRAME_3DS"),
	0x31: c("WAIT_NUM_DECIMAL_RND", OpWaitNumDecimalRnd, u8, reserved),
	0x32: present("INTERVAL", i16),
	0x33: present("FREQUENCY", i16),
	0x34: present("VOLUME", u8),
}

var lba2Conditions = []cond{
	0x00: cd("COL", CondCol, RoleNone, 1),
	0x01: cd("COL_OBJ", CondColObj, RoleActor, 1),
	0x02: cd("DISTANCE", CondDistance, RoleActor, 2),
	0x03: cd("ZONE", CondZone, RoleNone, 1),
	0x04: cd("ZONE_OBJ", CondZoneObj, RoleActor, 1),
	0x05: cd("BODY", CondBody, RoleNone, 1),
	0x06: cd("BODY_OBJ", CondBodyObj, RoleActor, 1),
	0x07: cd("ANIM", CondAnim, RoleNone, 2),
	0x08: cd("ANIM_OBJ", CondAnimObj, RoleActor, 2),
	0x09: cd("CURRENT_TRACK", CondCurrentTrack, RoleNone, 1),
	0x0A: cd("CURRENT_TRACK_OBJ", CondCurrentTrackObj, RoleActor, 1),
	0x0B: cd("VAR_CUBE", CondVarCube, RoleVar, 1),
	0x0C: cd("CONE_VIEW", CondConeView, RoleActor, 2),
	0x0D: cd("HIT_BY", CondHitBy, RoleNone, 1),
	0x0E: cd("ACTION", CondAction, RoleNone, 1),
	0x0F: cd("VAR_GAME", CondVarGame, RoleVar, 2),
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
	0x1E: cd("LADDER", CondLadder, RoleVar, 1),
	0x1F: cd("RND", CondRnd, RoleVar, 1),
	0x20: cd("RAIL", CondRail, RoleVar, 1),
	0x21: cd("BETA", CondBeta, RoleNone, 2),
	0x22: cd("BETA_OBJ", CondBetaObj, RoleActor, 2),
	0x23: cd("CARRIED_OBJ_BY", CondCarriedObjBy, RoleActor, 1),
	0x24: cd("ANGLE", CondAngle, RoleActor, 2),
	0x25: cd("DISTANCE_MESSAGE", CondDistanceMessage, RoleActor, 2),
	0x26: cd("HIT_OBJ_BY", CondHitObjBy, RoleActor, 1),
	0x27: cd("REAL_ANGLE", CondRealAngle, RoleActor, 2),
	0x28: cd("DEMO", CondDemo, RoleNone, 1),
	0x29: cd("COL_DECORS", CondColDecors, RoleNone, 1),
	0x2A: cd("COL_DECORS_OBJ", CondColDecorsObj, RoleActor, 1),
	0x2B: cd("PROCESSOR", CondProcessor, RoleNone, 1),
	0x2C: cd("OBJECT_DISPLAYED", CondObjectDisplayed, RoleActor, 1),
	0x2D: cd("ANGLE_OBJ", CondAngleObj, RoleActor, 2),
}
