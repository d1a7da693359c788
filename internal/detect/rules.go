package detect

// defaultRules is the built-in pattern table. Order matters: the first
// matching pattern wins, so specific names precede generic launchers.
var defaultRules = []Rule{
	{Pattern: "valorant", Label: "Valorant"},
	{Pattern: "valorant.exe", Label: "Valorant"},
	{Pattern: "csgo", Label: "CS:GO"},
	{Pattern: "cs2", Label: "Counter-Strike 2"},
	{Pattern: "overwatch", Label: "Overwatch"},
	{Pattern: "leagueoflegends", Label: "League of Legends"},
	{Pattern: "league of legends", Label: "League of Legends"},
	{Pattern: "riotclientux", Label: "League of Legends"},
	{Pattern: "dota2", Label: "Dota 2"},
	{Pattern: "minecraft", Label: "Minecraft"},
	{Pattern: "fortnite", Label: "Fortnite"},
	{Pattern: "apex", Label: "Apex Legends"},
	{Pattern: "r5apex", Label: "Apex Legends"},
	{Pattern: "rocketleague", Label: "Rocket League"},
	{Pattern: "gta5", Label: "GTA V"},
	{Pattern: "gtav", Label: "GTA V"},
	{Pattern: "elden ring", Label: "Elden Ring"},
	{Pattern: "eldenring", Label: "Elden Ring"},
	{Pattern: "arc raiders", Label: "Arc Raiders"},
	{Pattern: "arcraiders", Label: "Arc Raiders"},
	{Pattern: "steam", Label: "Steam Game"},
	{Pattern: "lutris", Label: "Game"},
}
