package gemini

const analyzeImagePrompt = `
Analysera bilden. Den visar antingen ett kvitto från en matbutik eller en eller flera matvaror.

1. Kvitto: lista alla matvaror. Uppskatta bäst före-datum (expiryDate) generöst utifrån varutyp, till exempel mjölk 7 dagar och konserver 1 år. Ta med priset för varje rad.
2. Matvaror på bild: identifiera varorna, uppskatta mängd eller vikt, gissa bäst före-datum och ett ungefärligt pris i SEK.

Svara med JSON enligt schemat.
`

const deductionPrompt = `
Jag har lagat: "%s".
Mitt nuvarande lager: %s.

Ta reda på vilka varor i lagret som troligen gick åt och hur mycket.
Returnera en lista över varor vars saldo ska minskas, med id från lagret.
Var försiktig men realistisk: lagar jag 2 portioner pasta och har 1 kg pasta, dra ungefär 200 g.
Ingredienser som inte finns i lagret ska utelämnas.
`

const recipePrompt = `
Du är en kreativ kock. Föreslå 3 rätter utifrån det jag har hemma.

Lager: %s

Regler:
1. Prioritera varor med få dagar kvar (daysLeft).
2. Det går bra att föreslå rätter där någon enstaka basvara saknas, men lista dem i missingIngredients.
3. Skriv instruktionerna på svenska.

Svara med JSON enligt schemat.
`
